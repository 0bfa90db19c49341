package protocol

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func feedAll(t *testing.T, chunks [][]byte) []Line {
	t.Helper()
	var dec Decoder
	var out []Line
	for _, c := range chunks {
		out = append(out, dec.Feed(c)...)
	}
	return out
}

func TestDecoderChunkBoundaries(t *testing.T) {
	stream := `{"type":"status","payload":{"playing":true}}` + "\n" +
		`not json at all` + "\n" +
		`{"type":"config","payload":{"musicFolders":["/music"]}}` + "\n"

	var dec Decoder
	want := dec.Feed([]byte(stream))
	if len(want) != 3 {
		t.Fatalf("one-pass decode yielded %d lines, want 3", len(want))
	}

	// Splitting the stream at every byte position must yield the identical
	// ordered sequence of lines.
	for split := 1; split < len(stream); split++ {
		got := feedAll(t, [][]byte{[]byte(stream[:split]), []byte(stream[split:])})
		if !reflect.DeepEqual(got, want) {
			t.Errorf("split at %d: got %+v, want %+v", split, got, want)
		}
	}

	// Byte-at-a-time delivery.
	var chunks [][]byte
	for i := 0; i < len(stream); i++ {
		chunks = append(chunks, []byte{stream[i]})
	}
	if got := feedAll(t, chunks); !reflect.DeepEqual(got, want) {
		t.Errorf("byte-at-a-time: got %+v, want %+v", got, want)
	}
}

func TestDecoderSplitMessage(t *testing.T) {
	var dec Decoder

	if out := dec.Feed([]byte(`{"typ`)); len(out) != 0 {
		t.Fatalf("partial line produced %d lines, want 0", len(out))
	}
	if !dec.Pending() {
		t.Error("expected pending partial line")
	}

	out := dec.Feed([]byte(`e":"status","payload":{"playing":true}}` + "\n"))
	if len(out) != 1 {
		t.Fatalf("got %d lines, want 1", len(out))
	}
	if out[0].Msg == nil || out[0].Msg.Type != TypeStatus {
		t.Fatalf("got %+v, want one status message", out[0])
	}
	st, err := DecodeStatus(out[0].Msg.Payload)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	if !st.Playing {
		t.Error("playing = false, want true")
	}
}

func TestDecoderMixedStream(t *testing.T) {
	input := "\n" +
		`{"type":"status","payload":{"playing":false,"title":"Idle"}}` + "\n" +
		"not json at all\n" +
		"   \n" +
		`{"type":"ping","payload":{}}` + "\n"

	var dec Decoder
	out := dec.Feed([]byte(input))

	if len(out) != 3 {
		t.Fatalf("got %d lines, want 3 (empty lines dropped)", len(out))
	}
	if out[0].Msg == nil || out[0].Msg.Type != TypeStatus {
		t.Errorf("line 0 = %+v, want status message", out[0])
	}
	if out[1].Msg != nil || out[1].Raw != "not json at all" {
		t.Errorf("line 1 = %+v, want raw %q", out[1], "not json at all")
	}
	if out[2].Msg == nil || out[2].Msg.Type != "ping" {
		t.Errorf("line 2 = %+v, want ping message", out[2])
	}
	if out[2].Raw != `{"type":"ping","payload":{}}` {
		t.Errorf("line 2 raw = %q, want original text", out[2].Raw)
	}
}

func TestDecoderCRLF(t *testing.T) {
	var dec Decoder
	out := dec.Feed([]byte("{\"type\":\"status\",\"payload\":{\"playing\":true}}\r\n"))
	if len(out) != 1 || out[0].Msg == nil {
		t.Fatalf("got %+v, want one parsed message", out)
	}
}

func TestEncodeCommandRoundTrip(t *testing.T) {
	theme := "dark"
	cfg := AppConfig{
		MusicFolders: []string{"/home/u/Music", "/mnt/flac"},
		Theme:        &theme,
	}
	cmd := NewCommand("update-config", cfg)

	line, err := EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if !strings.HasSuffix(string(line), "\n") {
		t.Error("encoded command must be newline terminated")
	}
	if strings.Count(string(line), "\n") != 1 {
		t.Errorf("encoded command spans %d lines, want 1", strings.Count(string(line), "\n"))
	}

	var decoded Command
	if err := json.Unmarshal(line, &decoded); err != nil {
		t.Fatalf("decode encoded command: %v", err)
	}
	if decoded.Type != TypeCommand {
		t.Errorf("type = %q, want %q", decoded.Type, TypeCommand)
	}
	if decoded.Command != "update-config" {
		t.Errorf("command = %q, want %q", decoded.Command, "update-config")
	}
	if decoded.ID != cmd.ID || decoded.ID == "" {
		t.Errorf("id = %q, want %q", decoded.ID, cmd.ID)
	}

	// Payload survives the round trip.
	payload, err := json.Marshal(decoded.Payload)
	if err != nil {
		t.Fatalf("re-marshal payload: %v", err)
	}
	var got AppConfig
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !reflect.DeepEqual(got.MusicFolders, cfg.MusicFolders) {
		t.Errorf("musicFolders = %v, want %v", got.MusicFolders, cfg.MusicFolders)
	}
	if got.Theme == nil || *got.Theme != theme {
		t.Errorf("theme = %v, want %q", got.Theme, theme)
	}
}

func TestEncodeCommandEscapesNewlines(t *testing.T) {
	cmd := NewCommand("update-config", map[string]string{"note": "line one\nline two"})
	line, err := EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	body := strings.TrimSuffix(string(line), "\n")
	if strings.Contains(body, "\n") {
		t.Error("payload newline leaked into the protocol line unescaped")
	}
}

func TestDecodeStatusUnknownFieldsTolerated(t *testing.T) {
	payload := json.RawMessage(`{"playing":true,"title":"Song","someFutureField":42}`)
	st, err := DecodeStatus(payload)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	if st.Title == nil || *st.Title != "Song" {
		t.Errorf("title = %v, want Song", st.Title)
	}
}

func TestDecodeStatusMalformed(t *testing.T) {
	if _, err := DecodeStatus(json.RawMessage(`"just a string"`)); err == nil {
		t.Error("expected error for non-object status payload")
	}
}

func TestCloneIndependence(t *testing.T) {
	title := "Original"
	st := &TrackStatus{Playing: true, Title: &title}
	c := st.Clone()
	*c.Title = "Mutated"
	if *st.Title != "Original" {
		t.Error("Clone shares string storage with the original")
	}

	cfg := &AppConfig{MusicFolders: []string{"/a"}}
	cc := cfg.Clone()
	cc.MusicFolders[0] = "/b"
	if cfg.MusicFolders[0] != "/a" {
		t.Error("Clone shares slice storage with the original")
	}
}
