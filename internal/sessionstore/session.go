// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sessionstore

import (
	"time"

	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

// Conversation defaults and bookkeeping strings.
const (
	DefaultConversationName = "新对话"
	WelcomeLastMessage      = "您好！欢迎使用食探AI"
	NewLastMessage          = "新对话开始"
	ClearedLastMessage      = "对话已清空"

	// MaxHistory is how many messages (four exchanges) a conversation keeps.
	MaxHistory = 8

	lastMessageRunes = 30
	autoNameRunes    = 20
)

// Turn roles as stored. Clients normalize "assistant" to "ai".
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one stored message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// Timestamp is the HH:MM wall clock at which the turn was recorded.
	Timestamp string `json:"timestamp"`
}

// Conversation is the stored form of one chat thread.
type Conversation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	History     []Turn    `json:"history"`
	Starred     bool      `json:"starred"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
	LastMessage string    `json:"last_message"`
}

// Session is one client's state. Conversations keep insertion order; the
// delete fallback picks the oldest remaining one.
type Session struct {
	ID                    string          `json:"id"`
	CurrentConversationID string          `json:"current_conversation_id"`
	Conversations         []*Conversation `json:"conversations"`
	CreatedAt             time.Time       `json:"created_at"`
}

// IDFunc generates conversation ids.
type IDFunc func() string

// NewSession creates a session holding a single default conversation.
func NewSession(id string, newID IDFunc, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now}
	s.seed(newID, now)
	return s
}

func (s *Session) seed(newID IDFunc, now time.Time) {
	c := s.add(newID(), DefaultConversationName, WelcomeLastMessage, now)
	s.CurrentConversationID = c.ID
}

func (s *Session) add(id, name, lastMessage string, now time.Time) *Conversation {
	c := &Conversation{
		ID:          id,
		Name:        name,
		History:     []Turn{},
		CreatedAt:   now,
		LastUpdated: now,
		LastMessage: lastMessage,
	}
	s.Conversations = append(s.Conversations, c)
	return c
}

// Find returns the conversation with id, or nil.
func (s *Session) Find(id string) *Conversation {
	for _, c := range s.Conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Current returns the current conversation, or nil when the id is dangling.
func (s *Session) Current() *Conversation {
	if s.CurrentConversationID == "" {
		return nil
	}
	return s.Find(s.CurrentConversationID)
}

// Create adds a conversation and makes it current. A blank name becomes the
// default name.
func (s *Session) Create(id, name string, now time.Time) *Conversation {
	if name == "" {
		name = DefaultConversationName
	}
	c := s.add(id, name, NewLastMessage, now)
	s.CurrentConversationID = c.ID
	return c
}

// Switch makes id current, creating an empty conversation under that id
// when it does not exist yet.
func (s *Session) Switch(id string, now time.Time) *Conversation {
	c := s.Find(id)
	if c == nil {
		c = s.add(id, DefaultConversationName, NewLastMessage, now)
	}
	s.CurrentConversationID = id
	return c
}

// Delete removes a conversation. When it was current, the oldest remaining
// conversation becomes current, or a fresh one is created. Reports false
// when id is unknown.
func (s *Session) Delete(id string, newID IDFunc, now time.Time) bool {
	idx := -1
	for i, c := range s.Conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	s.Conversations = append(s.Conversations[:idx], s.Conversations[idx+1:]...)
	if s.CurrentConversationID == id {
		if len(s.Conversations) > 0 {
			s.CurrentConversationID = s.Conversations[0].ID
		} else {
			c := s.add(newID(), DefaultConversationName, NewLastMessage, now)
			s.CurrentConversationID = c.ID
		}
	}
	return true
}

// ToggleStar flips the starred flag and bumps LastUpdated. ok is false when
// id is unknown.
func (s *Session) ToggleStar(id string, now time.Time) (starred, ok bool) {
	c := s.Find(id)
	if c == nil {
		return false, false
	}
	c.Starred = !c.Starred
	c.LastUpdated = now
	return c.Starred, true
}

// ClearCurrent empties the current conversation's history. Reports false
// when there is no current conversation.
func (s *Session) ClearCurrent(now time.Time) bool {
	c := s.Current()
	if c == nil {
		return false
	}
	c.History = []Turn{}
	c.LastMessage = ClearedLastMessage
	c.LastUpdated = now
	return true
}

// RecordExchange appends a user message and its reply to the current
// conversation. History is capped at MaxHistory. The first exchange names
// the conversation after the user's message.
func (s *Session) RecordExchange(input, reply string, now time.Time) *Conversation {
	c := s.Current()
	if c == nil {
		return nil
	}
	stamp := now.Format("15:04")
	c.History = append(c.History,
		Turn{Role: RoleUser, Content: input, Timestamp: stamp},
		Turn{Role: RoleAssistant, Content: reply, Timestamp: stamp},
	)
	if len(c.History) > MaxHistory {
		c.History = append([]Turn(nil), c.History[len(c.History)-MaxHistory:]...)
	}
	c.LastMessage = util.PreviewRunes(input, lastMessageRunes)
	c.LastUpdated = now
	if len(c.History) == 2 {
		c.Name = util.PreviewRunes(input, autoNameRunes)
	}
	return c
}

// Reset discards every conversation and seeds a new default one.
func (s *Session) Reset(newID IDFunc, now time.Time) {
	s.Conversations = nil
	s.seed(newID, now)
}

// RecentHistory returns at most the last MaxHistory turns of the current
// conversation.
func (s *Session) RecentHistory() []Turn {
	c := s.Current()
	if c == nil {
		return nil
	}
	h := c.History
	if len(h) > MaxHistory {
		h = h[len(h)-MaxHistory:]
	}
	return append([]Turn(nil), h...)
}

// Summaries returns the list view, starred first and then most recently
// updated first.
func (s *Session) Summaries() []model.Conversation {
	out := make([]model.Conversation, 0, len(s.Conversations))
	for _, c := range s.Conversations {
		out = append(out, c.Summary(c.ID == s.CurrentConversationID))
	}
	return model.SortConversations(out)
}

// Summary converts a stored conversation to its list form.
func (c *Conversation) Summary(current bool) model.Conversation {
	return model.Conversation{
		ID:           c.ID,
		Name:         c.Name,
		Starred:      c.Starred,
		LastUpdated:  model.NewTimestamp(c.LastUpdated),
		LastMessage:  model.StringPtr(c.LastMessage),
		MessageCount: len(c.History) / 2,
		CreatedAt:    model.NewTimestamp(c.CreatedAt),
		IsCurrent:    current,
	}
}

// Messages converts the stored history to wire messages.
func (c *Conversation) Messages() []model.Message {
	out := make([]model.Message, 0, len(c.History))
	for _, t := range c.History {
		out = append(out, model.Message{
			Role:      model.ParseRole(t.Role),
			Content:   t.Content,
			Timestamp: t.Timestamp,
		})
	}
	return out
}
