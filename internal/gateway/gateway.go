// Package gateway is the synchronous API surface the UI layer calls. Each
// operation is a thin translation into a supervisor lifecycle action or an
// encoded command to the helper.
package gateway

import (
	"log"

	"github.com/tini-presence/tinibar/internal/protocol"
	"github.com/tini-presence/tinibar/internal/state"
)

// Service is the supervisor surface the gateway drives.
type Service interface {
	Start() error
	Stop()
	Send(command string, payload any) error
}

// Gateway translates UI operations into supervisor actions and state reads.
type Gateway struct {
	svc   Service
	store *state.Store
	quit  func() // terminates the hosting application
}

// New creates a Gateway. quit is invoked by QuitApp after the helper stops.
func New(svc Service, store *state.Store, quit func()) *Gateway {
	return &Gateway{svc: svc, store: store, quit: quit}
}

// ToggleService stops the helper if running, starts it otherwise.
// Returns the new intended running state.
func (g *Gateway) ToggleService() bool {
	if g.store.Running() {
		g.svc.Stop()
		return false
	}
	if err := g.svc.Start(); err != nil {
		log.Printf("Failed to start helper: %v", err)
	}
	return true
}

// ServiceStatus reads the running flag.
func (g *Gateway) ServiceStatus() bool {
	return g.store.Running()
}

// TrackStatus returns the cached track status, or nil when absent.
func (g *Gateway) TrackStatus() *protocol.TrackStatus {
	return g.store.TrackStatus()
}

// Config returns the cached helper config, or nil when absent.
func (g *Gateway) Config() *protocol.AppConfig {
	return g.store.Config()
}

// RequestConfig asks the helper to re-send its config.
func (g *Gateway) RequestConfig() bool {
	return g.svc.Send("get-config", nil) == nil
}

// UpdateConfig pushes a full config to the helper.
func (g *Gateway) UpdateConfig(cfg protocol.AppConfig) bool {
	return g.svc.Send("update-config", cfg) == nil
}

// AddFolder triggers the helper's folder picker flow.
func (g *Gateway) AddFolder() bool {
	return g.svc.Send("add-folder", nil) == nil
}

// OpenConfig asks the helper to open its config for editing.
func (g *Gateway) OpenConfig() bool {
	return g.svc.Send("open-config", nil) == nil
}

// QuitApp stops the helper and terminates the hosting application.
func (g *Gateway) QuitApp() {
	g.svc.Stop()
	if g.quit != nil {
		g.quit()
	}
}
