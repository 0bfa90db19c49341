package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/tini-presence/tinibar/internal/gateway"
	"github.com/tini-presence/tinibar/internal/protocol"
	"github.com/tini-presence/tinibar/internal/state"
)

type stubService struct {
	sendErr  error
	starts   int
	stops    int
	commands []string
}

func (s *stubService) Start() error { s.starts++; return nil }
func (s *stubService) Stop()        { s.stops++ }
func (s *stubService) Send(command string, payload any) error {
	s.commands = append(s.commands, command)
	return s.sendErr
}

func newTestServer(svc gateway.Service, store *state.Store, quit func()) *Server {
	return &Server{
		gw:      gateway.New(svc, store, quit),
		clients: make(map[*client]bool),
	}
}

func dispatch(t *testing.T, s *Server, raw string) opResult {
	t.Helper()
	env := s.dispatchOp([]byte(raw))
	if env.Event != "op-result" {
		t.Fatalf("envelope event = %q, want op-result", env.Event)
	}
	res, ok := env.Payload.(opResult)
	if !ok {
		t.Fatalf("envelope payload = %T, want opResult", env.Payload)
	}
	return res
}

func TestDispatchToggleService(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(svc, state.New(), nil)

	res := dispatch(t, s, `{"op":"toggle-service"}`)
	if !res.OK {
		t.Error("toggle-service not OK")
	}
	if got, ok := res.Data.(bool); !ok || !got {
		t.Errorf("toggle-service data = %v, want true", res.Data)
	}
	if svc.starts != 1 {
		t.Errorf("starts = %d, want 1", svc.starts)
	}
}

func TestDispatchStateReads(t *testing.T) {
	store := state.New()
	title := "Song"
	store.SetRunning(true)
	store.SetStatus(&protocol.TrackStatus{Playing: true, Title: &title})
	s := newTestServer(&stubService{}, store, nil)

	res := dispatch(t, s, `{"op":"get-service-status"}`)
	if !res.OK || res.Data != true {
		t.Errorf("get-service-status = %+v, want ok/true", res)
	}

	res = dispatch(t, s, `{"op":"get-track-status"}`)
	st, ok := res.Data.(*protocol.TrackStatus)
	if !res.OK || !ok || st == nil || *st.Title != "Song" {
		t.Errorf("get-track-status = %+v, want Song", res)
	}

	// Absent config reads as an explicit nil, not an error.
	res = dispatch(t, s, `{"op":"get-config"}`)
	cfg, ok := res.Data.(*protocol.AppConfig)
	if !res.OK || !ok || cfg != nil {
		t.Errorf("get-config = %+v, want ok with nil config", res)
	}
}

func TestDispatchUpdateConfig(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(svc, state.New(), nil)

	res := dispatch(t, s, `{"op":"update-config","payload":{"musicFolders":["/music"]}}`)
	if !res.OK {
		t.Error("update-config not OK")
	}
	if len(svc.commands) != 1 || svc.commands[0] != "update-config" {
		t.Errorf("commands = %v, want [update-config]", svc.commands)
	}
}

func TestDispatchUpdateConfigMalformedPayload(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(svc, state.New(), nil)

	res := dispatch(t, s, `{"op":"update-config","payload":"not an object"}`)
	if res.OK {
		t.Error("malformed update-config payload answered OK")
	}
	if len(svc.commands) != 0 {
		t.Errorf("malformed payload reached the helper: %v", svc.commands)
	}
}

func TestDispatchSendFailureAnswersNotOK(t *testing.T) {
	svc := &stubService{sendErr: errors.New("not running")}
	s := newTestServer(svc, state.New(), nil)

	for _, op := range []string{"request-config", "add-folder", "open-config"} {
		res := dispatch(t, s, `{"op":"`+op+`"}`)
		if res.OK {
			t.Errorf("%s answered OK with a failing send", op)
		}
	}
}

func TestDispatchUnknownOp(t *testing.T) {
	s := newTestServer(&stubService{}, state.New(), nil)

	res := dispatch(t, s, `{"op":"self-destruct"}`)
	if res.OK {
		t.Error("unknown op answered OK")
	}
	if res.Op != "self-destruct" {
		t.Errorf("result op = %q, want the request op echoed", res.Op)
	}
}

func TestDispatchMalformedFrame(t *testing.T) {
	s := newTestServer(&stubService{}, state.New(), nil)

	res := dispatch(t, s, `{{{`)
	if res.OK {
		t.Error("malformed frame answered OK")
	}
}

func TestDispatchQuitApp(t *testing.T) {
	svc := &stubService{}
	quit := make(chan struct{})
	s := newTestServer(svc, state.New(), func() { close(quit) })

	res := dispatch(t, s, `{"op":"quit-app"}`)
	if !res.OK {
		t.Error("quit-app not OK")
	}

	// QuitApp runs async so the reply can reach the client first.
	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("quit callback never fired")
	}
	if svc.stops != 1 {
		t.Errorf("stops = %d, want 1", svc.stops)
	}
}
