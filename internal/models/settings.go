// Package models defines the structs shared across tinibar packages.
package models

// HelperConfig holds configuration for the supervised helper process.
type HelperConfig struct {
	Path          string `yaml:"path"`            // empty = resolve next to the app binary
	Name          string `yaml:"name"`            // logical executable name, also the orphan-sweep match
	SweepSettleMs int    `yaml:"sweep_settle_ms"` // pause after the orphan sweep
}

// BridgeConfig holds settings for the local UI bridge.
type BridgeConfig struct {
	Port int `yaml:"port"` // 0 = dynamic allocation
}

// UpdatesConfig holds settings for update checking.
type UpdatesConfig struct {
	CheckOnStartup bool `yaml:"check_on_startup"`
}

// AppearanceConfig holds appearance settings.
type AppearanceConfig struct {
	Theme string `yaml:"theme"` // "system" | "light" | "dark"
}

// Settings represents global application settings.
// This corresponds to ~/.tinibar/settings.yaml.
type Settings struct {
	Version    int              `yaml:"version"`
	Helper     HelperConfig     `yaml:"helper"`
	Bridge     BridgeConfig     `yaml:"bridge"`
	Updates    UpdatesConfig    `yaml:"updates"`
	Appearance AppearanceConfig `yaml:"appearance"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Helper: HelperConfig{
			Path:          "",
			Name:          "tini-presence-core",
			SweepSettleMs: 100,
		},
		Updates: UpdatesConfig{
			CheckOnStartup: true,
		},
		Appearance: AppearanceConfig{
			Theme: "system",
		},
	}
}
