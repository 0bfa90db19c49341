// Package state holds the last-known helper state behind a concurrency-safe
// boundary. The read loop and supervisor write; the gateway and UI read.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/tini-presence/tinibar/internal/protocol"
)

// Snapshot is one immutable view of the cached helper state.
type Snapshot struct {
	Running bool
	Status  *protocol.TrackStatus
	Config  *protocol.AppConfig
}

// Store keeps the current snapshot behind an atomically-swapped pointer so
// readers never contend with the read-loop writer and never observe a torn
// combination of fields. Writers serialize on a mutex.
type Store struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

// New creates an empty store (not running, nothing cached).
func New() *Store {
	s := &Store{}
	s.snap.Store(&Snapshot{})
	return s
}

// Running reports whether the helper is currently considered running.
func (s *Store) Running() bool {
	return s.snap.Load().Running
}

// TrackStatus returns an independent copy of the cached status, or nil.
func (s *Store) TrackStatus() *protocol.TrackStatus {
	return s.snap.Load().Status.Clone()
}

// Config returns an independent copy of the cached config, or nil.
func (s *Store) Config() *protocol.AppConfig {
	return s.snap.Load().Config.Clone()
}

// SetRunning marks the helper running or stopped without touching the cache.
func (s *Store) SetRunning(running bool) {
	s.update(func(n *Snapshot) { n.Running = running })
}

// SetStatus replaces the cached track status wholesale.
func (s *Store) SetStatus(st *protocol.TrackStatus) {
	s.update(func(n *Snapshot) { n.Status = st.Clone() })
}

// SetConfig replaces the cached app config wholesale.
func (s *Store) SetConfig(cfg *protocol.AppConfig) {
	s.update(func(n *Snapshot) { n.Config = cfg.Clone() })
}

// Clear marks the helper stopped and drops status and config together.
// The two caches are never cleared independently.
func (s *Store) Clear() {
	s.update(func(n *Snapshot) {
		n.Running = false
		n.Status = nil
		n.Config = nil
	})
}

func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.snap.Load()
	fn(&next)
	s.snap.Store(&next)
}
