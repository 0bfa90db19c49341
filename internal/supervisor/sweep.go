package supervisor

import (
	"log"
	"os/exec"
	"time"
)

// defaultSweepSettle is how long to wait after killing orphans so a dying
// helper releases shared resources (the Discord presence socket in
// particular) before the replacement grabs them.
const defaultSweepSettle = 100 * time.Millisecond

// sweepOrphans terminates any stray helper instance left behind by a
// previous app run, matching on the helper's logical executable name.
// Best effort: pkill exits non-zero when nothing matched, which is fine.
func sweepOrphans(helperName string, settle time.Duration) {
	if err := exec.Command("pkill", "-f", helperName).Run(); err == nil {
		log.Printf("Swept orphaned %s process(es)", helperName)
	}
	time.Sleep(settle)
}
