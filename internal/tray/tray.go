package tray

import (
	"fmt"
	"log"

	"github.com/getlantern/systray"
)

var (
	gw      Gateway
	onStart func()
	onExit  func()

	nowPlayingItem *systray.MenuItem
	toggleItem     *systray.MenuItem
	addFolderItem  *systray.MenuItem
	openConfigItem *systray.MenuItem
	quitItem       *systray.MenuItem
)

// Run starts the menu bar icon. This blocks the calling goroutine (must be
// main — Cocoa requirement). onStartFn is called when the tray is ready
// (start the bridge and auto-start the helper there). onExitFn is called
// when the tray exits (stop the helper there).
func Run(g Gateway, onStartFn, onExitFn func()) {
	gw = g
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("tinibar")

	header := systray.AddMenuItem("tinibar", "")
	header.Disable()

	nowPlayingItem = systray.AddMenuItem("Nothing playing", "")
	nowPlayingItem.Disable()

	systray.AddSeparator()

	toggleItem = systray.AddMenuItem("Start Service", "Start the presence helper")
	addFolderItem = systray.AddMenuItem("Add Music Folder…", "Add a folder to watch")
	openConfigItem = systray.AddMenuItem("Open Config", "Open the helper configuration")

	systray.AddSeparator()

	quitItem = systray.AddMenuItem("Quit", "Quit tinibar")

	if onStart != nil {
		onStart()
	}
	UpdateRunning(gw.ServiceStatus())

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-toggleItem.ClickedCh:
			running := gw.ToggleService()
			UpdateRunning(running)

		case <-addFolderItem.ClickedCh:
			if !gw.AddFolder() {
				log.Println("Add folder: helper not running")
			}

		case <-openConfigItem.ClickedCh:
			if !gw.OpenConfig() {
				log.Println("Open config: helper not running")
			}

		case <-quitItem.ClickedCh:
			gw.QuitApp()
		}
	}
}

// UpdateRunning refreshes the toggle label and tooltip for the given state.
func UpdateRunning(running bool) {
	if toggleItem == nil {
		return
	}
	if running {
		toggleItem.SetTitle("Stop Service")
		systray.SetTooltip("tinibar — service running")
	} else {
		toggleItem.SetTitle("Start Service")
		systray.SetTooltip("tinibar — service stopped")
		UpdateNowPlaying(nil)
	}
}

// UpdateNowPlaying refreshes the now-playing line. Nil clears it.
func UpdateNowPlaying(np *NowPlaying) {
	if nowPlayingItem == nil {
		return
	}
	if np == nil || np.Title == "" {
		nowPlayingItem.SetTitle("Nothing playing")
		return
	}
	marker := "▷"
	if np.Playing {
		marker = "♪"
	}
	if np.Artist != "" {
		nowPlayingItem.SetTitle(fmt.Sprintf("%s %s — %s", marker, np.Title, np.Artist))
		return
	}
	nowPlayingItem.SetTitle(fmt.Sprintf("%s %s", marker, np.Title))
}
