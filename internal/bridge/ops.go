package bridge

import (
	"encoding/json"

	"github.com/tini-presence/tinibar/internal/protocol"
)

// op is one inbound request from the UI.
type op struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// opResult is the reply payload, wrapped in an "op-result" envelope.
type opResult struct {
	Op   string `json:"op"`
	OK   bool   `json:"ok"`
	Data any    `json:"data,omitempty"`
}

// dispatchOp translates an inbound UI op into a gateway call. Unknown ops
// and malformed payloads answer ok=false; they never disturb the supervisor.
func (s *Server) dispatchOp(data []byte) EventEnvelope {
	var req op
	if err := json.Unmarshal(data, &req); err != nil {
		return resultEnvelope(opResult{Op: "", OK: false})
	}

	res := opResult{Op: req.Op}
	switch req.Op {
	case "toggle-service":
		res.OK = true
		res.Data = s.gw.ToggleService()
	case "get-service-status":
		res.OK = true
		res.Data = s.gw.ServiceStatus()
	case "get-track-status":
		res.OK = true
		res.Data = s.gw.TrackStatus()
	case "get-config":
		res.OK = true
		res.Data = s.gw.Config()
	case "request-config":
		res.OK = s.gw.RequestConfig()
	case "update-config":
		var cfg protocol.AppConfig
		if err := json.Unmarshal(req.Payload, &cfg); err != nil {
			res.OK = false
			break
		}
		res.OK = s.gw.UpdateConfig(cfg)
	case "add-folder":
		res.OK = s.gw.AddFolder()
	case "open-config":
		res.OK = s.gw.OpenConfig()
	case "quit-app":
		res.OK = true
		go s.gw.QuitApp() // never returns to this client
	default:
		res.OK = false
	}

	return resultEnvelope(res)
}

func resultEnvelope(res opResult) EventEnvelope {
	return EventEnvelope{Event: "op-result", Payload: res}
}
