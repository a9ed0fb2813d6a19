// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/config"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("session not found")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown session store backend")
)

// NotFoundError reports a missing or expired session.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists sessions. Implementations are safe for concurrent use.
type Store interface {
	// Load returns the session or a *NotFoundError.
	Load(ctx context.Context, id string) (*Session, error)
	// Save writes the session and (re)starts its TTL.
	Save(ctx context.Context, id string, s *Session, ttl time.Duration) error
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases connections.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", BackendMemory:
		logger.Info("SESSION_STORE", zap.String("backend", BackendMemory))
		return NewMemoryStore(), nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("SESSION_STORE", zap.String("backend", BackendRedis), zap.String("prefix", s.prefix))
		return s, nil
	case BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			p, err := config.DataPath("sessions.db")
			if err != nil {
				return nil, err
			}
			path = p
		}
		s, err := NewSQLiteStore(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Info("SESSION_STORE", zap.String("backend", BackendSQLite), zap.String("path", path))
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func encode(s *Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(id string, data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", id, err)
	}
	if s.ID == "" {
		s.ID = id
	}
	return &s, nil
}
