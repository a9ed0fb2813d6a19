// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/export"
	"github.com/jeranaias/foodscout-tui/internal/state"
)

// Backend is the part of the API client the chat screen uses. *api.Client
// satisfies it. Calls are never retried.
type Backend interface {
	ListConversations(ctx context.Context) (*api.ListResponse, error)
	SwitchConversation(ctx context.Context, id string) (*api.SwitchResponse, error)
	NewConversation(ctx context.Context, name string) (*api.MutationResponse, error)
	DeleteConversation(ctx context.Context, id string) (*api.MutationResponse, error)
	StarConversation(ctx context.Context, id string) (*api.StarResponse, error)
	Chat(ctx context.Context, message string) (*api.ChatResponse, error)
	ClearHistory(ctx context.Context) error
}

var _ Backend = (*api.Client)(nil)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// LoadConversationsCmd fetches the conversation list.
func LoadConversationsCmd(b Backend, reload bool) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.ListConversations(context.Background())
		return ConversationsLoadedMsg{Resp: resp, Err: err, Reload: reload}
	}
}

// SwitchConversationCmd switches to id. The token comes back with the result.
func SwitchConversationCmd(b Backend, tok state.Token, id string, origin SwitchOrigin) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.SwitchConversation(context.Background(), id)
		return ConversationSwitchedMsg{Token: tok, ID: id, Origin: origin, Resp: resp, Err: err}
	}
}

// NewConversationCmd creates a conversation named name. pendingSend, when
// set, is sent as soon as the conversation exists.
func NewConversationCmd(b Backend, name, pendingSend string) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.NewConversation(context.Background(), name)
		return ConversationCreatedMsg{Resp: resp, Err: err, PendingSend: pendingSend}
	}
}

// DeleteConversationCmd deletes id.
func DeleteConversationCmd(b Backend, id string) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.DeleteConversation(context.Background(), id)
		return ConversationDeletedMsg{ID: id, Resp: resp, Err: err}
	}
}

// StarConversationCmd toggles the star on id.
func StarConversationCmd(b Backend, id string) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.StarConversation(context.Background(), id)
		return ConversationStarredMsg{ID: id, Resp: resp, Err: err}
	}
}

// ChatCmd sends text to the current conversation, recorded as
// conversationID so a late reply can be recognized.
func ChatCmd(b Backend, conversationID, text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.Chat(context.Background(), text)
		return ChatReplyMsg{ConversationID: conversationID, Resp: resp, Err: err}
	}
}

// ClearHistoryCmd empties the current conversation.
func ClearHistoryCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		return HistoryClearedMsg{Err: b.ClearHistory(context.Background())}
	}
}

// ExportCmd writes t as HTML under dir, opening it afterwards when open is set.
func ExportCmd(t *export.Transcript, dir string, open bool, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		opts := export.DefaultOptions()
		if dir != "" {
			opts.OutputDir = dir
		}
		opts.OpenAfterExport = open
		opts.Logger = logger
		path, err := export.ExportTranscript(t, export.FormatHTML, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
