// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

// =============================================================================
// STORED COOKIE TYPES
// =============================================================================

// StoredCookie is the persisted form of one cookie.
type StoredCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// cookieFile is the on-disk document: cookies grouped by backend origin.
type cookieFile struct {
	Version int                       `json:"version"`
	SavedAt time.Time                 `json:"saved_at"`
	Origins map[string][]StoredCookie `json:"origins"`
}

const cookieFileVersion = 1

// ErrInvalidOrigin is returned for URLs without a scheme and host.
var ErrInvalidOrigin = errors.New("invalid backend origin")

// =============================================================================
// COOKIE STORE
// =============================================================================

// CookieStore persists backend session cookies to a JSON file with 0600
// permissions. Safe for concurrent use within one process.
type CookieStore struct {
	// Path is the JSON file location.
	// Default: ~/.foodscout/cookies.json
	Path string

	mu sync.Mutex
}

// NewCookieStore creates a store at path, or at the default location when
// path is empty.
func NewCookieStore(path string) (*CookieStore, error) {
	if path == "" {
		p, err := config.DataPath("cookies.json")
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &CookieStore{Path: path}, nil
}

// Load returns the cookies saved for the origin of u. A missing file yields
// no cookies and no error.
func (s *CookieStore) Load(u *url.URL) ([]*http.Cookie, error) {
	origin, err := originOf(u)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	stored := doc.Origins[origin]
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

// Save replaces the cookies stored for the origin of u. Saving an empty set
// removes the origin.
func (s *CookieStore) Save(u *url.URL, cookies []*http.Cookie) error {
	origin, err := originOf(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking the session.
		doc = &cookieFile{Origins: make(map[string][]StoredCookie)}
	}

	if len(cookies) == 0 {
		delete(doc.Origins, origin)
	} else {
		stored := make([]StoredCookie, 0, len(cookies))
		for _, c := range cookies {
			stored = append(stored, StoredCookie{Name: c.Name, Value: c.Value})
		}
		doc.Origins[origin] = stored
	}

	doc.Version = cookieFileVersion
	doc.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := util.AtomicWriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	return nil
}

// Clear removes the cookies for the origin of u.
func (s *CookieStore) Clear(u *url.URL) error {
	return s.Save(u, nil)
}

func (s *CookieStore) read() (*cookieFile, error) {
	doc := &cookieFile{Origins: make(map[string][]StoredCookie)}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	if doc.Origins == nil {
		doc.Origins = make(map[string][]StoredCookie)
	}
	return doc, nil
}

func originOf(u *url.URL) (string, error) {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidOrigin
	}
	return u.Scheme + "://" + u.Host, nil
}
