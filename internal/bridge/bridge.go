// Package bridge exposes the event stream and the command gateway to the
// popover UI over a loopback websocket. It plays the role a webview IPC
// layer would: events are pushed as they happen, operations arrive as
// inbound JSON ops and are answered synchronously.
package bridge

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tini-presence/tinibar/internal/gateway"
	"github.com/tini-presence/tinibar/internal/supervisor"
)

// EventEnvelope is the outbound frame pushed to every connected UI client.
type EventEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Server is the loopback HTTP server carrying the UI websocket.
type Server struct {
	gw   *gateway.Gateway
	port int

	httpServer *http.Server
	listener   net.Listener

	mu      sync.RWMutex
	clients map[*client]bool
}

// New creates a bridge server bound to 127.0.0.1. Pass port 0 for dynamic
// allocation.
func New(gw *gateway.Gateway, port int) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := &Server{
		gw:       gw,
		port:     listener.Addr().(*net.TCPAddr).Port,
		listener: listener,
		clients:  make(map[*client]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpServer = &http.Server{Handler: mux}

	return s, nil
}

// Port returns the port the bridge is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	err := s.httpServer.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and disconnects all clients.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
}

// Emit implements supervisor.Sink: every event raised by the supervisor and
// router is pushed to all connected UI clients in order.
func (s *Server) Emit(e supervisor.Event) {
	env := EventEnvelope{Event: e.Name, Payload: e.Payload}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- env:
		default:
			// Drop if the client can't keep up; state ops let it resync.
			log.Printf("Bridge client send buffer full, dropping %s", e.Name)
		}
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Bridge upgrade failed: %v", err)
		return
	}

	c := newClient(s, conn)
	s.register(c)

	// The snapshot must be queued before the pumps run: once readPump is
	// live, a dying connection unregisters and closes the send channel.
	s.queueSnapshot(c)
	c.startPumps()
}

// queueSnapshot enqueues the current service/track/config state so a late
// joiner renders without waiting for the next change.
func (s *Server) queueSnapshot(c *client) {
	c.send <- EventEnvelope{Event: supervisor.EventServiceStatus, Payload: s.gw.ServiceStatus()}
	c.send <- EventEnvelope{Event: supervisor.EventTrackStatus, Payload: s.gw.TrackStatus()}
	c.send <- EventEnvelope{Event: supervisor.EventConfigUpdated, Payload: s.gw.Config()}
}
