// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/storage"
)

const (
	// DefaultBaseURL is the backend the client talks to when none is configured.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds one request. Chat replies wait on the LLM, so
	// this is generous.
	DefaultTimeout = 90 * time.Second

	// MaxResponseSize caps a response body.
	MaxResponseSize = 4 * 1024 * 1024

	userAgent = "foodscout-tui/1.0"
)

// Client talks to one backend. Methods are safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	cookies    *storage.CookieStore
	logger     *zap.Logger
}

// NewClient creates a client for baseURL. An unparsable URL falls back to
// DefaultBaseURL; use ParseBaseURL first when the value comes from a user.
func NewClient(baseURL string) *Client {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		u, _ = url.Parse(DefaultBaseURL)
	}

	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
}

// ParseBaseURL validates a backend URL. Only http and https are accepted and
// any trailing slash is dropped.
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", raw)
	}
	return u, nil
}

// WithTimeout sets the per-request timeout. Zero leaves requests bounded
// only by their context.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// WithLogger sets the logger for request tracing.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("api")
	}
	return c
}

// WithCookieStore loads persisted session cookies into the jar and saves the
// jar back after every response, so the session outlives the process.
func (c *Client) WithCookieStore(store *storage.CookieStore) *Client {
	c.cookies = store
	if store == nil {
		return c
	}
	saved, err := store.Load(c.baseURL)
	if err != nil {
		c.logger.Warn("COOKIE_LOAD_FAILED", zap.Error(err))
		return c
	}
	for _, ck := range saved {
		ck.Path = "/"
	}
	if len(saved) > 0 && c.httpClient.Jar != nil {
		c.httpClient.Jar.SetCookies(c.rootURL(), saved)
	}
	return c
}

// BaseURL returns the backend URL as a string.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ForgetSession drops the session cookie locally and from the cookie store.
func (c *Client) ForgetSession() error {
	jar, _ := cookiejar.New(nil)
	c.httpClient.Jar = jar
	if c.cookies != nil {
		return c.cookies.Clear(c.baseURL)
	}
	return nil
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// ListConversations fetches the conversation list and the current id.
func (c *Client) ListConversations(ctx context.Context) (*ListResponse, error) {
	var out ListResponse
	if err := c.do(ctx, http.MethodGet, PathConversations, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SwitchConversation makes id current and returns its history.
func (c *Client) SwitchConversation(ctx context.Context, id string) (*SwitchResponse, error) {
	var out SwitchResponse
	if err := c.do(ctx, http.MethodPost, PathSwitch, ConversationRequest{ConversationID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewConversation creates a conversation. An empty name lets the server
// choose a default.
func (c *Client) NewConversation(ctx context.Context, name string) (*MutationResponse, error) {
	var out MutationResponse
	if err := c.do(ctx, http.MethodPost, PathNew, NewConversationRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConversation deletes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, id string) (*MutationResponse, error) {
	var out MutationResponse
	if err := c.do(ctx, http.MethodPost, PathDelete, ConversationRequest{ConversationID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StarConversation toggles the starred flag and returns the new value.
func (c *Client) StarConversation(ctx context.Context, id string) (*StarResponse, error) {
	var out StarResponse
	if err := c.do(ctx, http.MethodPost, PathStar, ConversationRequest{ConversationID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one message to the current conversation and returns the reply.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, PathChat, ChatRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearHistory empties the current conversation.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathClear, struct{}{}, nil)
}

// Status reports backend health.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, PathStatus, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one call and decodes the envelope. Any failure before a
// decodable envelope is a transport error; "success": false is an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode %s request: %v", ErrTransport, path, err)
		}
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readResponse(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrTransport, path, err)
	}
	c.persistCookies()

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: %s returned HTTP %d", ErrTransport, path, resp.StatusCode)
		}
		return fmt.Errorf("%w: decode %s response: %v", ErrTransport, path, err)
	}
	if !env.Success {
		return &APIError{Endpoint: path, Message: env.text(), Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned HTTP %d", ErrTransport, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decode %s payload: %v", ErrTransport, path, err)
		}
	}
	return nil
}

// send issues the request once. Failed requests are never retried: a
// repeated POST would duplicate the mutation.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: build %s request: %v", ErrTransport, path, err)
	}

	c.logger.Debug("API_REQUEST", zap.String("method", method), zap.String("path", path), zap.Int("body_bytes", len(payload)))
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("API_ERROR", zap.String("path", path), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, c.transportErr(path, err)
	}
	c.logger.Debug("API_RESPONSE", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) transportErr(path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrTransport, path, ErrTimeout)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %w", ErrTransport, path, ErrTimeout)
	}
	return fmt.Errorf("%w: %s: %v", ErrTransport, path, err)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) rootURL() *url.URL {
	u := *c.baseURL
	u.Path = "/"
	return &u
}

func (c *Client) persistCookies() {
	if c.cookies == nil || c.httpClient.Jar == nil {
		return
	}
	current := c.httpClient.Jar.Cookies(c.rootURL())
	if err := c.cookies.Save(c.baseURL, current); err != nil {
		c.logger.Warn("COOKIE_SAVE_FAILED", zap.Error(err))
	}
}

// readResponse reads at most MaxResponseSize bytes of body.
func readResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}
