// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/foodscout-tui/internal/bot"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/sessionstore"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

// User-facing messages.
const (
	msgCreated          = "新对话创建成功"
	msgMissingID        = "缺少对话ID"
	msgInvalidID        = "对话ID无效"
	msgNoSuchConv       = "对话不存在"
	msgDeleted          = "对话已删除"
	msgStarred          = "已标记"
	msgUnstarred        = "已取消标记"
	msgHistoryCleared   = "历史记录已清空"
	msgNothingToClear   = "没有可清空的对话"
	msgNoConversation   = "请先创建对话"
	msgEmptyMessage     = "请输入内容"
	msgChatCleared      = "当前对话历史已清空！"
	msgBotUnavailable   = "机器人服务暂不可用"
	msgInternalPrefix   = "内部错误："
	msgBadRequest       = "请求格式错误"
	msgRateLimited      = "请求过于频繁，请稍后再试"
	msgInternal         = "服务器内部错误"
	msgStoreUnavailable = "会话存储暂不可用"
	msgNotFound         = "接口不存在"
	msgMethodNotAllowed = "请求方法不允许"
)

const (
	maxIDRunes   = 64
	maxNameRunes = 100
)

var (
	clearCommands = map[string]bool{"清空": true, "清除": true, "clear": true, "reset": true}
	helpCommands  = map[string]bool{"帮助": true, "help": true, "?": true}
)

// ============================================================================
// RESPONSE TYPES
// ============================================================================

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listResponse struct {
	Success               bool                 `json:"success"`
	Conversations         []model.Conversation `json:"conversations"`
	CurrentConversationID string               `json:"current_conversation_id"`
}

type newResponse struct {
	Success        bool   `json:"success"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type switchResponse struct {
	Success          bool            `json:"success"`
	ConversationID   string          `json:"conversation_id"`
	History          []model.Message `json:"history"`
	ConversationName string          `json:"conversation_name"`
}

type deleteResponse struct {
	Success               bool   `json:"success"`
	Message               string `json:"message"`
	CurrentConversationID string `json:"current_conversation_id"`
}

type starResponse struct {
	Success bool   `json:"success"`
	Starred bool   `json:"starred"`
	Message string `json:"message"`
}

type chatResponse struct {
	Success        bool   `json:"success"`
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type statusResponse struct {
	Success               bool   `json:"success"`
	Status                string `json:"status"`
	ConversationCount     int    `json:"conversation_count"`
	CurrentConversationID string `json:"current_conversation_id"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Bot     string        `json:"bot"`
	Stats   StatsSnapshot `json:"stats"`
}

// htmlPage is written as text/html instead of JSON.
type htmlPage string

// ============================================================================
// REQUEST TYPES
// ============================================================================

type conversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

type newRequest struct {
	Name string `json:"name"`
}

type chatRequest struct {
	Message string `json:"message"`
}

var errBadBody = errors.New("malformed request body")

// decodeBody decodes an optional JSON body. An empty body leaves v as is.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: body exceeds %d bytes", errBadBody, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", errBadBody, err)
}

// normalizeText applies NFC so visually identical names and commands
// compare equal.
func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func validID(id string) bool {
	return util.RuneLen(id) <= maxIDRunes && !strings.ContainsAny(id, "\x00\r\n")
}

// ============================================================================
// SESSION PLUMBING
// ============================================================================

// sessionHandler runs with the request's session locked. The session is
// saved afterwards, which also slides its expiry.
type sessionHandler func(ctx context.Context, sess *sessionstore.Session) (int, any)

func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn sessionHandler) {
	ctx := r.Context()

	id, err := s.signer.sessionID(r)
	var sess *sessionstore.Session
	var unlock func()
	if err == nil {
		unlock = s.locks.Lock(id)
		sess, err = s.store.Load(ctx, id)
		if err != nil && !errors.Is(err, sessionstore.ErrNotFound) {
			unlock()
			s.logger.Error("SESSION_LOAD_FAILED", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, messageResponse{Success: false, Message: msgStoreUnavailable})
			return
		}
		if sess == nil {
			unlock()
		}
	}
	if sess == nil {
		id = s.newID()
		unlock = s.locks.Lock(id)
		sess = sessionstore.NewSession(id, s.newID, s.now())
		s.stats.SessionsCreated.Add(1)
		s.logger.Debug("SESSION_CREATED")
	}
	defer unlock()

	status, body := fn(ctx, sess)

	if err := s.store.Save(ctx, id, sess, s.ttl()); err != nil {
		s.logger.Error("SESSION_SAVE_FAILED", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, messageResponse{Success: false, Message: msgStoreUnavailable})
		return
	}
	http.SetCookie(w, s.signer.cookie(id, s.ttl(), s.cfg.SecureCookie))

	if page, ok := body.(htmlPage); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, string(page))
		return
	}
	writeJSON(w, status, body)
}

// ============================================================================
// CONVERSATION HANDLERS
// ============================================================================

// handleList handles GET /conversations.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		return http.StatusOK, listResponse{
			Success:               true,
			Conversations:         sess.Summaries(),
			CurrentConversationID: sess.CurrentConversationID,
		}
	})
}

// handleNew handles POST /conversations/new.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: msgBadRequest})
		return
	}
	name := util.TruncateRunes(normalizeText(req.Name), maxNameRunes)

	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		c := sess.Create(s.newID(), name, s.now())
		return http.StatusOK, newResponse{Success: true, ConversationID: c.ID, Message: msgCreated}
	})
}

// handleSwitch handles POST /conversations/switch. Unknown ids are created.
func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: msgBadRequest})
		return
	}

	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		if req.ConversationID == "" {
			return http.StatusOK, messageResponse{Success: false, Message: msgMissingID}
		}
		if !validID(req.ConversationID) {
			return http.StatusOK, messageResponse{Success: false, Message: msgInvalidID}
		}
		c := sess.Switch(req.ConversationID, s.now())
		return http.StatusOK, switchResponse{
			Success:          true,
			ConversationID:   c.ID,
			History:          c.Messages(),
			ConversationName: c.Name,
		}
	})
}

// handleDelete handles POST /conversations/delete.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: msgBadRequest})
		return
	}

	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		if !sess.Delete(req.ConversationID, s.newID, s.now()) {
			return http.StatusOK, messageResponse{Success: false, Message: msgNoSuchConv}
		}
		return http.StatusOK, deleteResponse{
			Success:               true,
			Message:               msgDeleted,
			CurrentConversationID: sess.CurrentConversationID,
		}
	})
}

// handleStar handles POST /conversations/star.
func (s *Server) handleStar(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: msgBadRequest})
		return
	}

	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		starred, ok := sess.ToggleStar(req.ConversationID, s.now())
		if !ok {
			return http.StatusOK, messageResponse{Success: false, Message: msgNoSuchConv}
		}
		msg := msgUnstarred
		if starred {
			msg = msgStarred
		}
		return http.StatusOK, starResponse{Success: true, Starred: starred, Message: msg}
	})
}

// ============================================================================
// CHAT HANDLERS
// ============================================================================

// handleChat handles POST /chat. Failures use the "reply" field.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.stats.ChatRequests.Add(1)

	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Success: false, Reply: msgBadRequest})
		return
	}
	input := normalizeText(req.Message)

	s.withSession(w, r, func(ctx context.Context, sess *sessionstore.Session) (status int, body any) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("CHAT_PANIC", zap.Any("panic", rec))
				status = http.StatusOK
				body = chatResponse{Success: false, Reply: fmt.Sprintf("%s%T", msgInternalPrefix, rec)}
			}
		}()

		current := sess.Current()
		if current == nil {
			return http.StatusOK, chatResponse{Success: false, Reply: msgNoConversation}
		}
		if input == "" {
			return http.StatusOK, chatResponse{Success: false, Reply: msgEmptyMessage}
		}

		command := strings.ToLower(input)
		if clearCommands[command] {
			sess.ClearCurrent(s.now())
			return http.StatusOK, chatResponse{Success: true, Reply: msgChatCleared}
		}
		if helpCommands[command] {
			return http.StatusOK, chatResponse{Success: true, Reply: bot.HelpText}
		}

		asker := s.currentBot()
		if asker == nil {
			return http.StatusOK, chatResponse{Success: false, Reply: msgBotUnavailable}
		}

		history := sess.RecentHistory()
		turns := make([]bot.Turn, 0, len(history))
		for _, t := range history {
			turns = append(turns, bot.Turn{Role: t.Role, Content: t.Content})
		}

		s.logger.Debug("CHAT_SEND", zap.Int("input_len", len(input)), zap.Int("history", len(turns)))
		reply := asker.Ask(ctx, input, turns)
		sess.RecordExchange(input, reply, s.now())

		return http.StatusOK, chatResponse{Success: true, Reply: reply, ConversationID: current.ID}
	})
}

// handleClear handles POST /clear.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		if !sess.ClearCurrent(s.now()) {
			return http.StatusOK, messageResponse{Success: false, Message: msgNothingToClear}
		}
		return http.StatusOK, messageResponse{Success: true, Message: msgHistoryCleared}
	})
}

// ============================================================================
// STATUS HANDLERS
// ============================================================================

// handleStatus handles GET /status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := "inactive"
	if s.currentBot() != nil {
		status = "active"
	}
	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		return http.StatusOK, statusResponse{
			Success:               true,
			Status:                status,
			ConversationCount:     len(sess.Conversations),
			CurrentConversationID: sess.CurrentConversationID,
		}
	})
}

const clearAllPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Session 已清理</title></head><body>
<h1>✅ Session 已成功清理！</h1>
<p><a href="/">返回首页</a></p>
</body></html>
`

// handleClearAll handles GET /clear_all: every conversation is dropped and a
// fresh default one seeded.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ context.Context, sess *sessionstore.Session) (int, any) {
		sess.Reset(s.newID, s.now())
		return http.StatusOK, htmlPage(clearAllPage)
	})
}

// handleHealth handles GET /healthz. It does not touch the session.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	botState := "not_configured"
	if s.currentBot() != nil {
		botState = "configured"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: Version,
		Bot:     botState,
		Stats:   s.stats.Snapshot(),
	})
}
