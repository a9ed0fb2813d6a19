// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/foodscout-tui/internal/model"

// Endpoint paths.
const (
	PathConversations = "/conversations"
	PathSwitch        = "/conversations/switch"
	PathNew           = "/conversations/new"
	PathDelete        = "/conversations/delete"
	PathStar          = "/conversations/star"
	PathChat          = "/chat"
	PathClear         = "/clear"
	PathStatus        = "/status"
)

// envelope is the part every response shares. Chat failures put their text
// in "reply"; every other endpoint uses "message".
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reply   string `json:"reply"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reply
}

// =============================================================================
// REQUESTS
// =============================================================================

// ConversationRequest targets one conversation.
type ConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

// NewConversationRequest names a new conversation.
type NewConversationRequest struct {
	Name string `json:"name"`
}

// ChatRequest carries one user message.
type ChatRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// ListResponse is the GET /conversations payload.
type ListResponse struct {
	Conversations         []model.Conversation `json:"conversations"`
	CurrentConversationID string               `json:"current_conversation_id"`
}

// SwitchResponse is the POST /conversations/switch payload.
type SwitchResponse struct {
	ConversationID   string          `json:"conversation_id"`
	History          []model.Message `json:"history"`
	ConversationName string          `json:"conversation_name"`
}

// MutationResponse is returned by new and delete.
type MutationResponse struct {
	Message               string `json:"message"`
	ConversationID        string `json:"conversation_id,omitempty"`
	CurrentConversationID string `json:"current_conversation_id,omitempty"`
}

// StarResponse is the POST /conversations/star payload.
type StarResponse struct {
	Starred bool   `json:"starred"`
	Message string `json:"message"`
}

// ChatResponse is the POST /chat payload.
type ChatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// StatusResponse is the GET /status payload.
type StatusResponse struct {
	Status                string `json:"status"`
	ConversationCount     int    `json:"conversation_count"`
	CurrentConversationID string `json:"current_conversation_id"`
}

// Active reports whether the backend's bot is available.
func (s *StatusResponse) Active() bool {
	return s.Status == "active"
}
