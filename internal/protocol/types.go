// Package protocol defines the newline-delimited JSON message protocol
// spoken with the tini-presence-core helper over stdin/stdout.
package protocol

import "encoding/json"

// Message names for the inbound envelope types the helper emits.
const (
	TypeStatus  = "status"
	TypeConfig  = "config"
	TypeCommand = "command"
)

// TrackStatus is a point-in-time snapshot of detected playback.
// It is replaced wholesale on each update, never merged field-by-field.
type TrackStatus struct {
	Playing    bool     `json:"playing"`
	Reason     *string  `json:"reason,omitempty"`
	Title      *string  `json:"title,omitempty"`
	Artist     *string  `json:"artist,omitempty"`
	Album      *string  `json:"album,omitempty"`
	CoverURL   *string  `json:"coverUrl,omitempty"`
	Source     *string  `json:"source,omitempty"`
	PositionMs *float64 `json:"positionMs,omitempty"`
	DurationMs *float64 `json:"durationMs,omitempty"`
	TrackID    *string  `json:"trackId,omitempty"`
	FilePath   *string  `json:"filePath,omitempty"`
}

// Clone returns an independent copy of the status.
func (t *TrackStatus) Clone() *TrackStatus {
	if t == nil {
		return nil
	}
	c := *t
	c.Reason = cloneString(t.Reason)
	c.Title = cloneString(t.Title)
	c.Artist = cloneString(t.Artist)
	c.Album = cloneString(t.Album)
	c.CoverURL = cloneString(t.CoverURL)
	c.Source = cloneString(t.Source)
	c.PositionMs = cloneFloat(t.PositionMs)
	c.DurationMs = cloneFloat(t.DurationMs)
	c.TrackID = cloneString(t.TrackID)
	c.FilePath = cloneString(t.FilePath)
	return &c
}

// AppConfig holds the user-editable settings kept synchronized with the
// helper. Same replace-wholesale semantics as TrackStatus.
type AppConfig struct {
	MusicFolders    []string `json:"musicFolders"`
	DiscordClientID *string  `json:"discordClientId,omitempty"`
	CopypartyAPIKey *string  `json:"copypartyApiKey,omitempty"`
	CopypartyURL    *string  `json:"copypartyUrl,omitempty"`
	CopypartyPath   *string  `json:"copypartyPath,omitempty"`
	Theme           *string  `json:"theme,omitempty"`
}

// Clone returns an independent copy of the config.
func (c *AppConfig) Clone() *AppConfig {
	if c == nil {
		return nil
	}
	cp := *c
	if c.MusicFolders != nil {
		cp.MusicFolders = make([]string, len(c.MusicFolders))
		copy(cp.MusicFolders, c.MusicFolders)
	}
	cp.DiscordClientID = cloneString(c.DiscordClientID)
	cp.CopypartyAPIKey = cloneString(c.CopypartyAPIKey)
	cp.CopypartyURL = cloneString(c.CopypartyURL)
	cp.CopypartyPath = cloneString(c.CopypartyPath)
	cp.Theme = cloneString(c.Theme)
	return &cp
}

// Message is the inbound envelope. Payload stays raw until the router
// decides how to interpret it based on Type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Command is the outbound envelope. Type is always "command". The ID is an
// optional correlation identifier; the helper is free to ignore it and
// inbound messages never carry one.
type Command struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Payload any    `json:"payload,omitempty"`
	ID      string `json:"id,omitempty"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
