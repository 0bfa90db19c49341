package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tini-presence/tinibar/internal/bridge"
	"github.com/tini-presence/tinibar/internal/config"
	"github.com/tini-presence/tinibar/internal/gateway"
	"github.com/tini-presence/tinibar/internal/models"
	"github.com/tini-presence/tinibar/internal/protocol"
	"github.com/tini-presence/tinibar/internal/state"
	"github.com/tini-presence/tinibar/internal/supervisor"
	"github.com/tini-presence/tinibar/internal/tray"
)

var (
	bridgePortFlag  int
	noAutoStartFlag bool
)

// runApp starts the menu-bar app: supervisor, gateway, UI bridge and tray.
// Blocks until the tray exits (systray must own the main goroutine on macOS).
func runApp() error {
	log.SetPrefix("[tinibar] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	running, info, err := config.IsAppRunning()
	if err != nil {
		return fmt.Errorf("failed to check app status: %w", err)
	}
	if running {
		return fmt.Errorf("tinibar already running (PID %d)", info.PID)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	helperPath, err := config.ResolveHelperPath(settings)
	if err != nil {
		return fmt.Errorf("failed to resolve helper: %w", err)
	}

	// The sink fanout is assembled below, after the bridge exists; the
	// closure keeps the supervisor decoupled from construction order.
	// Nothing emits before tray onStart, so the late append is safe.
	var sinks supervisor.MultiSink
	sink := supervisor.SinkFunc(func(e supervisor.Event) { sinks.Emit(e) })

	store := state.New()
	sup := supervisor.New(supervisor.Options{
		HelperPath:  helperPath,
		HelperName:  settings.Helper.Name,
		SweepSettle: time.Duration(settings.Helper.SweepSettleMs) * time.Millisecond,
	}, store, sink)

	gw := gateway.New(sup, store, tray.Quit)

	bridgePort := settings.Bridge.Port
	if bridgePortFlag >= 0 {
		bridgePort = bridgePortFlag
	}
	br, err := bridge.New(gw, bridgePort)
	if err != nil {
		return fmt.Errorf("failed to start UI bridge: %w", err)
	}

	sinks = append(sinks, logSink(), br, traySink())

	if err := config.SaveAppInfo(models.NewAppInfo(os.Getpid(), br.Port())); err != nil {
		return fmt.Errorf("failed to write app info: %w", err)
	}

	watcher, err := config.WatchSettings(func() {
		// Helper path and sweep settings apply on the next start.
		sink.Emit(supervisor.Event{Name: supervisor.EventDiagnosticLog, Payload: "Settings changed on disk; takes effect on next service start"})
	})
	if err != nil {
		log.Printf("Warning: settings watcher unavailable: %v", err)
	}

	onStart := func() {
		log.Printf("UI bridge listening on 127.0.0.1:%d", br.Port())
		go func() {
			if err := br.Serve(); err != nil {
				log.Printf("Bridge error: %v", err)
				tray.Quit()
			}
		}()

		// Handle OS signals — quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()

		if !noAutoStartFlag {
			if err := sup.Start(); err != nil {
				log.Printf("Helper did not start: %v", err)
			}
		}
	}

	onExit := func() {
		if watcher != nil {
			watcher.Stop()
		}
		sup.Stop()
		br.Stop()
		if err := config.RemoveAppInfo(); err != nil {
			log.Printf("Failed to remove app info: %v", err)
		}
		fmt.Println("tinibar stopped")
	}

	// This blocks the main goroutine until the tray exits.
	tray.Run(gw, onStart, onExit)
	return nil
}

// logSink mirrors diagnostics into the app log.
func logSink() supervisor.Sink {
	return supervisor.SinkFunc(func(e supervisor.Event) {
		if e.Name == supervisor.EventDiagnosticLog {
			log.Printf("helper: %v", e.Payload)
		}
	})
}

// traySink keeps the menu in step with the event stream.
func traySink() supervisor.Sink {
	return supervisor.SinkFunc(func(e supervisor.Event) {
		switch e.Name {
		case supervisor.EventServiceStatus:
			if running, ok := e.Payload.(bool); ok {
				tray.UpdateRunning(running)
			}
		case supervisor.EventTrackStatus:
			st, _ := e.Payload.(*protocol.TrackStatus)
			if st == nil {
				tray.UpdateNowPlaying(nil)
				return
			}
			np := &tray.NowPlaying{Playing: st.Playing}
			if st.Title != nil {
				np.Title = *st.Title
			}
			if st.Artist != nil {
				np.Artist = *st.Artist
			}
			tray.UpdateNowPlaying(np)
		}
	})
}
