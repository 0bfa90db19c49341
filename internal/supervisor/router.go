package supervisor

import (
	"fmt"

	"github.com/tini-presence/tinibar/internal/protocol"
	"github.com/tini-presence/tinibar/internal/state"
)

// router classifies decoded protocol messages, updates the cached state and
// raises events. It is driven by a single goroutine (the read loop), so
// messages from one helper instance are processed strictly in arrival order.
type router struct {
	store *state.Store
	sink  Sink
}

// route handles one decoded message. Schema mismatches with the helper are
// never fatal: the cache is left untouched and the payload is surfaced as a
// diagnostic instead. raw is the original line text, used for diagnostics.
func (r *router) route(msg protocol.Message, raw string) {
	switch msg.Type {
	case protocol.TypeStatus:
		st, err := protocol.DecodeStatus(msg.Payload)
		if err != nil {
			diagnostic(r.sink, fmt.Sprintf("Failed to decode status payload: %s", msg.Payload))
			return
		}
		r.store.SetStatus(st)
		trackStatus(r.sink, st)

	case protocol.TypeConfig:
		cfg, err := protocol.DecodeConfig(msg.Payload)
		if err != nil {
			diagnostic(r.sink, fmt.Sprintf("Failed to decode config payload: %s", msg.Payload))
			return
		}
		r.store.SetConfig(cfg)
		configUpdated(r.sink, cfg)

	default:
		diagnostic(r.sink, fmt.Sprintf("Unknown message: %s", raw))
	}
}

// routeRaw handles a non-empty line that failed protocol parsing. The text
// is forwarded verbatim so log output from the helper keeps its position
// relative to the protocol messages around it.
func (r *router) routeRaw(line string) {
	diagnostic(r.sink, line)
}
