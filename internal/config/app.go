package config

import (
	"os"
	"syscall"

	"github.com/tini-presence/tinibar/internal/models"
)

// LoadAppInfo loads the running-instance info from ~/.tinibar/app.yaml.
// Returns nil if the file doesn't exist.
func LoadAppInfo() (*models.AppInfo, error) {
	path, err := GlobalAppFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.AppInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveAppInfo saves the running-instance info to ~/.tinibar/app.yaml.
func SaveAppInfo(info *models.AppInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalAppFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveAppInfo removes the app.yaml file.
func RemoveAppInfo() error {
	path, err := GlobalAppFile()
	if err != nil {
		return err
	}

	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsAppRunning checks if another tinibar instance is still running.
// Returns true if app.yaml exists and the PID is alive.
func IsAppRunning() (bool, *models.AppInfo, error) {
	info, err := LoadAppInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		// On Unix, FindProcess always succeeds
		return false, info, nil
	}

	// Send signal 0 to check if process exists
	if err := process.Signal(syscall.Signal(0)); err != nil {
		// Process doesn't exist, clean up stale file
		_ = RemoveAppInfo()
		return false, info, nil
	}

	return true, info, nil
}
