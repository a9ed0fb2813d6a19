// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the chat controller's UI state as an explicit value.
//
// State is owned by a single goroutine (the bubbletea Update loop or the REPL
// loop) and has no locking. Everything the view renders about the
// conversation list derives from it.
//
// Two invariants hold after every list refresh:
//   - CurrentID is empty or names a conversation in the list.
//   - SelectedID is empty or names a conversation in the list.
//
// Overlapping conversation switches are sequenced with tokens: only the
// response to the most recent BeginSwitch is accepted.
package state

import (
	"github.com/jeranaias/foodscout-tui/internal/model"
)

// Token identifies one switch request.
type Token uint64

// State is the controller state: the cached conversation list and the two
// independent selection references into it.
type State struct {
	// Conversations is replaced wholesale by ApplyList.
	Conversations []model.Conversation

	// CurrentID is the conversation whose messages are displayed.
	CurrentID string

	// SelectedID is the conversation targeted by delete/star.
	SelectedID string

	// Cursor is the highlighted row in the sorted list.
	Cursor int

	lastToken    Token
	pendingToken Token
	pendingID    string
}

// New returns an empty state.
func New() *State {
	return &State{}
}

// =============================================================================
// LIST REFRESH
// =============================================================================

// ApplyList replaces the cached list with list and adopts currentID as the
// current conversation. Selection references not present in the new list are
// cleared. The cursor follows the current conversation when there is one.
func (s *State) ApplyList(list []model.Conversation, currentID string) {
	s.Conversations = model.SortConversations(list)

	if currentID != "" {
		s.CurrentID = currentID
	}
	if !s.Has(s.CurrentID) {
		s.CurrentID = ""
	}
	if !s.Has(s.SelectedID) {
		s.SelectedID = ""
	}

	if idx := s.IndexOf(s.CurrentID); idx >= 0 {
		s.Cursor = idx
	}
	s.clampCursor()
}

// Sorted returns the conversations in display order: starred first, then
// the most recently updated.
func (s *State) Sorted() []model.Conversation {
	return s.Conversations
}

// Len returns the number of cached conversations.
func (s *State) Len() int {
	return len(s.Conversations)
}

// IsEmpty reports whether the list has no conversations, which the view
// renders as the "no conversations" placeholder.
func (s *State) IsEmpty() bool {
	return len(s.Conversations) == 0
}

// Has reports whether id names a cached conversation. The empty id is never
// present.
func (s *State) Has(id string) bool {
	return s.IndexOf(id) >= 0
}

// IndexOf returns the position of id in display order, or -1.
func (s *State) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.Conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the cached conversation with the given id.
func (s *State) Find(id string) (model.Conversation, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s.Conversations[i], true
	}
	return model.Conversation{}, false
}

// Current returns the current conversation, if any.
func (s *State) Current() (model.Conversation, bool) {
	return s.Find(s.CurrentID)
}

// HasActive reports whether a conversation is active for sending.
func (s *State) HasActive() bool {
	return s.CurrentID != ""
}

// SetCurrent makes id the current conversation and moves the cursor to it.
func (s *State) SetCurrent(id string) {
	s.CurrentID = id
	if idx := s.IndexOf(id); idx >= 0 {
		s.Cursor = idx
	}
}

// =============================================================================
// SELECTION (DELETE/STAR TARGET)
// =============================================================================

// ToggleSelect selects id, or clears the selection when id is already
// selected. Unknown ids are ignored.
func (s *State) ToggleSelect(id string) {
	if !s.Has(id) {
		return
	}
	if s.SelectedID == id {
		s.SelectedID = ""
		return
	}
	s.SelectedID = id
}

// ClearSelection drops the delete/star target.
func (s *State) ClearSelection() {
	s.SelectedID = ""
}

// Selected returns the selected conversation, if any.
func (s *State) Selected() (model.Conversation, bool) {
	return s.Find(s.SelectedID)
}

// CanMutate reports whether delete and star are enabled.
func (s *State) CanMutate() bool {
	return s.Has(s.SelectedID)
}

// SelectedStarred reports whether the selected conversation is starred, which
// decides the star action's label.
func (s *State) SelectedStarred() bool {
	c, ok := s.Selected()
	return ok && c.Starred
}

// =============================================================================
// CURSOR
// =============================================================================

// MoveCursor moves the highlighted row by delta, clamped to the list.
func (s *State) MoveCursor(delta int) {
	s.Cursor += delta
	s.clampCursor()
}

// CursorConversation returns the highlighted conversation.
func (s *State) CursorConversation() (model.Conversation, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Conversations) {
		return model.Conversation{}, false
	}
	return s.Conversations[s.Cursor], true
}

func (s *State) clampCursor() {
	if s.Cursor >= len(s.Conversations) {
		s.Cursor = len(s.Conversations) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// =============================================================================
// SWITCH SEQUENCING
// =============================================================================

// BeginSwitch records a switch to id and returns its token. Any earlier
// switch still in flight becomes stale.
func (s *State) BeginSwitch(id string) Token {
	s.lastToken++
	s.pendingToken = s.lastToken
	s.pendingID = id
	return s.pendingToken
}

// AcceptSwitch reports whether a response carrying tok is the latest switch.
// Accepting consumes the pending switch, so a duplicate delivery is rejected.
func (s *State) AcceptSwitch(tok Token) bool {
	if tok == 0 || tok != s.pendingToken {
		return false
	}
	s.pendingToken = 0
	s.pendingID = ""
	return true
}

// SwitchPending reports whether a switch is in flight and to which id.
func (s *State) SwitchPending() (string, bool) {
	return s.pendingID, s.pendingToken != 0
}
