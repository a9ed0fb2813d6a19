// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/state"
)

// =============================================================================
// CONVERSATION LIST MESSAGES
// =============================================================================

// ConversationsLoadedMsg carries the result of a list fetch.
type ConversationsLoadedMsg struct {
	Resp *api.ListResponse
	Err  error

	// Reload asks for the current conversation's history to be fetched
	// again once the list is applied.
	Reload bool
}

// SwitchOrigin tells a switch result apart by what started it.
type SwitchOrigin int

const (
	// SwitchSelect is a switch the user asked for.
	SwitchSelect SwitchOrigin = iota
	// SwitchRestore reloads the current conversation after a list refresh.
	SwitchRestore
)

// ConversationSwitchedMsg carries the result of a switch.
type ConversationSwitchedMsg struct {
	Token  state.Token
	ID     string
	Origin SwitchOrigin
	Resp   *api.SwitchResponse
	Err    error
}

// =============================================================================
// MUTATION MESSAGES
// =============================================================================

// ConversationCreatedMsg carries the result of creating a conversation.
type ConversationCreatedMsg struct {
	Resp *api.MutationResponse
	Err  error

	// PendingSend is the message to send once the conversation exists.
	PendingSend string
}

// ConversationDeletedMsg carries the result of a delete.
type ConversationDeletedMsg struct {
	ID   string
	Resp *api.MutationResponse
	Err  error
}

// ConversationStarredMsg carries the result of a star toggle.
type ConversationStarredMsg struct {
	ID   string
	Resp *api.StarResponse
	Err  error
}

// HistoryClearedMsg carries the result of clearing the current history.
type HistoryClearedMsg struct {
	Err error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatReplyMsg carries the bot reply for a message sent to ConversationID.
type ChatReplyMsg struct {
	ConversationID string
	Resp           *api.ChatResponse
	Err            error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportDoneMsg reports where a transcript export was written.
type ExportDoneMsg struct {
	Path string
	Err  error
}
