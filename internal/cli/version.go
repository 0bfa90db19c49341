package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tini-presence/tinibar/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", styleBrand.Render("tinibar"), styleVersion.Render(buildinfo.Version))
		fmt.Printf("  %s %s\n", styleLabel.Render("Commit:"), styleValue.Render(buildinfo.CommitHash))
		fmt.Printf("  %s %s\n", styleLabel.Render("Built:"), styleValue.Render(buildinfo.BuildDate))
		fmt.Printf("  %s %s/%s (%s)\n", styleLabel.Render("OS/Arch:"), runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
