// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// TIMESTAMP
// =============================================================================

// timestampLayouts are tried in order. The last two are the naive ISO 8601
// forms older backends emit without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a time that decodes leniently from the backend. Null, empty
// and unparseable values decode to the zero time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s using the accepted layouts. Naive values are
// interpreted in the local zone.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. The zero time encodes as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the list-level view of a chat thread. The backend owns it;
// clients hold a read-through copy replaced on every list fetch.
type Conversation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Starred      bool      `json:"starred"`
	LastUpdated  Timestamp `json:"last_updated"`
	LastMessage  *string   `json:"last_message"`
	MessageCount int       `json:"message_count"`
	CreatedAt    Timestamp `json:"created_at"`
	IsCurrent    bool      `json:"is_current"`
}

// Preview returns the last-message preview, or "" when there is none.
func (c Conversation) Preview() string {
	if c.LastMessage == nil {
		return ""
	}
	return *c.LastMessage
}

// DisplayName returns the name, falling back to 未命名 for blank names.
func (c Conversation) DisplayName() string {
	if c.Name == "" {
		return "未命名"
	}
	return c.Name
}

// StringPtr is a helper for building conversations with a preview.
func StringPtr(s string) *string {
	return &s
}

// =============================================================================
// ORDERING
// =============================================================================

// Less reports whether a sorts before b: starred before unstarred, then the
// later last_updated first. Equal keys fall back to id so order is total.
func Less(a, b Conversation) bool {
	if a.Starred != b.Starred {
		return a.Starred
	}
	if !a.LastUpdated.Equal(b.LastUpdated.Time) {
		return a.LastUpdated.After(b.LastUpdated.Time)
	}
	return a.ID < b.ID
}

// SortConversations returns a sorted copy of list. The input is not modified.
func SortConversations(list []Conversation) []Conversation {
	out := make([]Conversation, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// =============================================================================
// RELATIVE TIME
// =============================================================================

// TimeAgo renders the age of t relative to now the way the conversation list
// shows it: 刚刚, N分钟前, N小时前, N天前, and 1月前 beyond thirty days.
// Zero or future times render as 刚刚.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "刚刚"
	}
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "刚刚"
	case mins < 60:
		return fmt.Sprintf("%d分钟前", mins)
	case hours < 24:
		return fmt.Sprintf("%d小时前", hours)
	case days < 30:
		return fmt.Sprintf("%d天前", days)
	default:
		return "1月前"
	}
}
