// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// ParseRole normalizes a role string. The backend stores replies as
// "assistant"; the transcript only distinguishes user and ai.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	default:
		return RoleAI
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label shown above a chat bubble.
func (r Role) DisplayName() string {
	if r == RoleUser {
		return "你"
	}
	return "食探AI"
}

// UnmarshalJSON accepts any backend role name and normalizes it.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Messages are not persisted by the
// client; the backend owns history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Timestamp is the backend's HH:MM display stamp, when present.
	Timestamp string `json:"timestamp,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAIMessage creates an ai message.
func NewAIMessage(content string) Message {
	return Message{Role: RoleAI, Content: content}
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
