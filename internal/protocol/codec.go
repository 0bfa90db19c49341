package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewCommand builds an outbound command envelope with a fresh correlation ID.
func NewCommand(name string, payload any) Command {
	return Command{
		Type:    TypeCommand,
		Command: name,
		Payload: payload,
		ID:      uuid.NewString(),
	}
}

// EncodeCommand serializes a command to a single protocol line, newline
// terminated. JSON string escaping guarantees the payload cannot introduce
// an unescaped line break.
func EncodeCommand(cmd Command) ([]byte, error) {
	if cmd.Type == "" {
		cmd.Type = TypeCommand
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command %q: %w", cmd.Command, err)
	}
	return append(data, '\n'), nil
}

// ParseMessage parses a single trimmed protocol line into a Message.
func ParseMessage(line []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return Message{}, fmt.Errorf("parse protocol line: %w", err)
	}
	return msg, nil
}

// DecodeStatus parses a status payload against the TrackStatus schema.
func DecodeStatus(payload json.RawMessage) (*TrackStatus, error) {
	var st TrackStatus
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("decode status payload: %w", err)
	}
	return &st, nil
}

// DecodeConfig parses a config payload against the AppConfig schema.
func DecodeConfig(payload json.RawMessage) (*AppConfig, error) {
	var cfg AppConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("decode config payload: %w", err)
	}
	return &cfg, nil
}

// Line is one decoded unit from the helper's output stream. Raw always holds
// the trimmed line text; Msg is nil when the line failed protocol parsing.
type Line struct {
	Msg *Message
	Raw string
}

// Decoder turns an arbitrarily-chunked byte stream into protocol lines.
// A single message may arrive split across reads and a single read may carry
// any number of complete lines; the decoder buffers the unconsumed tail so a
// complete line is never lost or delayed past the read that finishes it.
type Decoder struct {
	buf []byte
}

// Feed appends a chunk to the buffer and returns every line completed by it,
// in stream order. Empty lines are dropped; lines that fail to parse are
// returned verbatim as raw text.
func (d *Decoder) Feed(chunk []byte) []Line {
	d.buf = append(d.buf, chunk...)

	var out []Line
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			return out
		}
		line := bytes.TrimRight(d.buf[:idx], " \t\r")
		d.buf = d.buf[idx+1:]

		if len(line) == 0 {
			continue
		}
		msg, err := ParseMessage(line)
		if err != nil {
			out = append(out, Line{Raw: string(line)})
			continue
		}
		out = append(out, Line{Msg: &msg, Raw: string(line)})
	}
}

// Pending reports whether a partial line is still buffered.
func (d *Decoder) Pending() bool {
	return len(bytes.TrimSpace(d.buf)) > 0
}
