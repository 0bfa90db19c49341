package models

import "time"

// AppInfo records the running app instance for the single-instance guard.
// This corresponds to ~/.tinibar/app.yaml.
type AppInfo struct {
	PID        int    `yaml:"pid"`
	BridgePort int    `yaml:"bridge_port"`
	StartedAt  string `yaml:"started_at"`
}

// NewAppInfo creates an AppInfo for the current moment.
func NewAppInfo(pid, bridgePort int) *AppInfo {
	return &AppInfo{
		PID:        pid,
		BridgePort: bridgePort,
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
