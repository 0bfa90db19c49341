package supervisor

import "github.com/tini-presence/tinibar/internal/protocol"

// Event names raised toward the UI layer.
const (
	EventServiceStatus = "service-status"
	EventTrackStatus   = "track-status"
	EventConfigUpdated = "config-updated"
	EventDiagnosticLog = "diagnostic-log"
)

// Event is one observable signal. Payload is a bool for service-status,
// *protocol.TrackStatus or *protocol.AppConfig (nil meaning explicitly
// cleared) for the cache events, and a string for diagnostic-log.
type Event struct {
	Name    string
	Payload any
}

// Sink receives events in the order the helper produced them.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f.
func (f SinkFunc) Emit(e Event) { f(e) }

// MultiSink fans one event stream out to several sinks in order.
type MultiSink []Sink

// Emit delivers e to every sink.
func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

func diagnostic(s Sink, text string) {
	s.Emit(Event{Name: EventDiagnosticLog, Payload: text})
}

func serviceStatus(s Sink, running bool) {
	s.Emit(Event{Name: EventServiceStatus, Payload: running})
}

func trackStatus(s Sink, st *protocol.TrackStatus) {
	s.Emit(Event{Name: EventTrackStatus, Payload: st})
}

func configUpdated(s Sink, cfg *protocol.AppConfig) {
	s.Emit(Event{Name: EventConfigUpdated, Payload: cfg})
}
