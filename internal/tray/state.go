// Package tray implements the menu-bar icon and menu for tinibar.
package tray

// Gateway is the command surface the tray menu drives.
type Gateway interface {
	ToggleService() bool
	ServiceStatus() bool
	AddFolder() bool
	OpenConfig() bool
	QuitApp()
}

// NowPlaying describes the current track for display in the menu.
type NowPlaying struct {
	Playing bool
	Title   string
	Artist  string
}
