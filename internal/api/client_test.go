// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/foodscout-tui/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL).WithTimeout(5 * time.Second)
	return c, srv
}

// =============================================================================
// ENDPOINT TESTS
// =============================================================================

func TestListConversations(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != PathConversations {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"conversations": []map[string]any{
				{"id": "a", "name": "火锅", "starred": true, "last_updated": "2024-05-01T10:00:00", "last_message": "推荐一下", "message_count": 2, "created_at": "2024-05-01T09:00:00", "is_current": true},
				{"id": "b", "name": "", "starred": false, "last_updated": nil, "last_message": nil, "message_count": 0, "created_at": "2024-05-01T09:00:00", "is_current": false},
			},
			"current_conversation_id": "a",
		})
	})

	list, err := c.ListConversations(context.Background())
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(list.Conversations) != 2 {
		t.Fatalf("got %d conversations, want 2", len(list.Conversations))
	}
	if list.CurrentConversationID != "a" {
		t.Errorf("current = %q", list.CurrentConversationID)
	}
	if list.Conversations[1].LastMessage != nil {
		t.Error("null last_message should decode to nil")
	}
	if !list.Conversations[1].LastUpdated.IsZero() {
		t.Error("null last_updated should decode to zero")
	}
}

func TestSwitchConversationSendsID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":           true,
			"conversation_id":   req.ConversationID,
			"conversation_name": "川菜",
			"history": []map[string]string{
				{"role": "user", "content": "你好", "timestamp": "2024-05-01T10:00:00"},
				{"role": "bot", "content": "您好", "timestamp": "2024-05-01T10:00:01"},
			},
		})
	})

	resp, err := c.SwitchConversation(context.Background(), "conv-7")
	if err != nil {
		t.Fatalf("SwitchConversation: %v", err)
	}
	if resp.ConversationID != "conv-7" || resp.ConversationName != "川菜" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(resp.History) != 2 {
		t.Fatalf("history length = %d", len(resp.History))
	}
	if !resp.History[0].IsUser() || resp.History[1].IsUser() {
		t.Errorf("roles not normalized: %+v", resp.History)
	}
}

func TestStarAndDelete(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathStar:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "starred": true, "message": "已标星"})
		case PathDelete:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "对话已删除", "current_conversation_id": "x"})
		default:
			http.NotFound(w, r)
		}
	})

	star, err := c.StarConversation(context.Background(), "a")
	if err != nil || !star.Starred {
		t.Fatalf("StarConversation = %+v, %v", star, err)
	}
	del, err := c.DeleteConversation(context.Background(), "a")
	if err != nil || del.CurrentConversationID != "x" {
		t.Fatalf("DeleteConversation = %+v, %v", del, err)
	}
}

// =============================================================================
// ERROR TIER TESTS
// =============================================================================

func TestApplicationErrorCarriesServerMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "对话不存在"})
	})

	_, err := c.SwitchConversation(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsApplicationError(err) {
		t.Fatalf("expected application error, got %v", err)
	}
	if IsTransportError(err) {
		t.Error("application error must not be a transport error")
	}
	msg, ok := ServerMessage(err)
	if !ok || msg != "对话不存在" {
		t.Errorf("ServerMessage = %q, %v", msg, ok)
	}
}

func TestChatFailureUsesReplyField(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "reply": "服务器错误"})
	})

	_, err := c.Chat(context.Background(), "hi")
	msg, ok := ServerMessage(err)
	if !ok || msg != "服务器错误" {
		t.Fatalf("ServerMessage = %q, %v (err %v)", msg, ok, err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status not preserved: %v", err)
	}
}

func TestNonJSONErrorIsTransport(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.NewConversation(context.Background(), "x")
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if IsApplicationError(err) {
		t.Error("transport error must not be an application error")
	}
}

func TestConnectionRefusedIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(addr).WithTimeout(time.Second)
	_, err := c.Status(context.Background())
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c.WithTimeout(50 * time.Millisecond)

	_, err := c.Chat(context.Background(), "slow")
	if !errors.Is(err, ErrTransport) || !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected transport timeout, got %v", err)
	}
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.NewConversation(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("request sent %d times, want 1", calls.Load())
	}
}

func TestResponseTooLarge(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"`))
		w.Write([]byte(strings.Repeat("x", MaxResponseSize)))
		w.Write([]byte(`"}`))
	})

	_, err := c.Status(context.Background())
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func sessionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("session")
		if err != nil {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s-123", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "conversations": []any{}, "current_conversation_id": "fresh"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "conversations": []any{}, "current_conversation_id": "seen:" + ck.Value})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSessionCookieIsReplayed(t *testing.T) {
	srv := sessionServer(t)
	c := NewClient(srv.URL)

	first, err := c.ListConversations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.ListConversations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.CurrentConversationID != "fresh" || second.CurrentConversationID != "seen:s-123" {
		t.Errorf("session not kept: %q then %q", first.CurrentConversationID, second.CurrentConversationID)
	}
}

func TestCookieStorePersistsSession(t *testing.T) {
	srv := sessionServer(t)
	store, err := storage.NewCookieStore(filepath.Join(t.TempDir(), "cookies.json"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewClient(srv.URL).WithCookieStore(store).ListConversations(context.Background()); err != nil {
		t.Fatal(err)
	}

	u, _ := url.Parse(srv.URL)
	saved, err := store.Load(u)
	if err != nil || len(saved) != 1 || saved[0].Value != "s-123" {
		t.Fatalf("saved cookies = %v, %v", saved, err)
	}

	// A new process picks the session back up.
	list, err := NewClient(srv.URL).WithCookieStore(store).ListConversations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list.CurrentConversationID != "seen:s-123" {
		t.Errorf("restored session not sent: %q", list.CurrentConversationID)
	}
}

func TestForgetSession(t *testing.T) {
	srv := sessionServer(t)
	store, _ := storage.NewCookieStore(filepath.Join(t.TempDir(), "cookies.json"))
	c := NewClient(srv.URL).WithCookieStore(store)

	if _, err := c.ListConversations(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.ForgetSession(); err != nil {
		t.Fatal(err)
	}
	list, err := c.ListConversations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list.CurrentConversationID != "fresh" {
		t.Errorf("session survived ForgetSession: %q", list.CurrentConversationID)
	}
}

// =============================================================================
// URL TESTS
// =============================================================================

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:5000/", "http://localhost:5000", false},
		{"", DefaultBaseURL, false},
		{"https://food.example.com", "https://food.example.com", false},
		{"ftp://example.com", "", true},
		{"localhost:5000", "", true},
	}
	for _, tt := range tests {
		u, err := ParseBaseURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBaseURL(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBaseURL(%q): %v", tt.in, err)
			continue
		}
		if u.String() != tt.want {
			t.Errorf("ParseBaseURL(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}
