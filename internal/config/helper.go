package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tini-presence/tinibar/internal/models"
)

// ResolveHelperPath returns the helper executable to launch. An explicit
// path in settings wins; otherwise the helper is expected to be bundled
// next to the app binary under its logical name, falling back to a PATH
// lookup. Resolution is best-effort: a missing helper surfaces later as a
// spawn-failure diagnostic, never as a startup error.
func ResolveHelperPath(settings *models.Settings) (string, error) {
	if settings.Helper.Path != "" {
		return settings.Helper.Path, nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate app binary: %w", err)
	}
	path := filepath.Join(filepath.Dir(execPath), settings.Helper.Name)
	if FileExists(path) {
		return path, nil
	}
	return settings.Helper.Name, nil
}
