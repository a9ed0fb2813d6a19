// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"
)

// SessionCookieName is the cookie carrying the signed session id.
const SessionCookieName = "session"

var (
	// ErrBadCookie is returned for a missing, malformed or forged cookie.
	ErrBadCookie = errors.New("invalid session cookie")
)

// ============================================================================
// Cookie Signing
// ============================================================================

// cookieSigner signs session ids with HMAC-SHA256. The MAC key is derived
// from the configured secret with HKDF so the raw secret is never used
// directly as a key.
type cookieSigner struct {
	key []byte
}

func newCookieSigner(secret string) (*cookieSigner, error) {
	if secret == "" {
		return nil, errors.New("empty session secret")
	}
	r := hkdf.New(sha256.New, []byte(secret), []byte("foodscout-session"), []byte("cookie-signing-v1"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	return &cookieSigner{key: key}, nil
}

// randomSecret is used when no secret is configured. Sessions then do not
// survive a restart.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *cookieSigner) mac(id string) []byte {
	m := hmac.New(sha256.New, s.key)
	m.Write([]byte(id))
	return m.Sum(nil)
}

// Sign returns "<id>.<mac>".
func (s *cookieSigner) Sign(id string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(s.mac(id))
}

// Verify returns the id of a correctly signed value.
func (s *cookieSigner) Verify(value string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", ErrBadCookie
	}
	id, sig := value[:i], value[i+1:]
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrBadCookie
	}
	if !hmac.Equal(got, s.mac(id)) {
		return "", ErrBadCookie
	}
	return id, nil
}

// sessionID extracts and verifies the session id from the request cookie.
func (s *cookieSigner) sessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", ErrBadCookie
	}
	return s.Verify(c.Value)
}

func (s *cookieSigner) cookie(id string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Sign(id),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ============================================================================
// Per-Session Locks
// ============================================================================

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks serializes requests for the same session. Entries are
// reference counted and removed once no request holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*lockEntry)}
}

// Lock acquires the lock for id and returns its release function.
func (l *sessionLocks) Lock(id string) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
