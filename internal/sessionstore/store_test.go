// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sessionstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/foodscout-tui/internal/config"
)

// runStoreSuite exercises the behavior every backend shares.
func runStoreSuite(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := store.Load(ctx, "absent-"+uuid.NewString())
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrNotFound))
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("round trip", func(t *testing.T) {
		id := uuid.NewString()
		s := NewSession(id, uuid.NewString, t0)
		s.RecordExchange("成都火锅推荐", "推荐…", t0)

		require.NoError(t, store.Save(ctx, id, s, time.Hour))
		got, err := store.Load(ctx, id)
		require.NoError(t, err)
		require.Equal(t, s.CurrentConversationID, got.CurrentConversationID)
		require.Len(t, got.Conversations, 1)
		require.Equal(t, "成都火锅推荐", got.Current().Name)
		require.Len(t, got.Current().History, 2)
	})

	t.Run("overwrite", func(t *testing.T) {
		id := uuid.NewString()
		s := NewSession(id, uuid.NewString, t0)
		require.NoError(t, store.Save(ctx, id, s, time.Hour))

		s.Create(uuid.NewString(), "second", t0)
		require.NoError(t, store.Save(ctx, id, s, time.Hour))

		got, err := store.Load(ctx, id)
		require.NoError(t, err)
		require.Len(t, got.Conversations, 2)
	})

	t.Run("delete", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, store.Save(ctx, id, NewSession(id, uuid.NewString, t0), time.Hour))
		require.NoError(t, store.Delete(ctx, id))
		_, err := store.Load(ctx, id)
		require.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, store.Delete(ctx, id))
	})

	t.Run("concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := uuid.NewString()
				assert.NoError(t, store.Save(ctx, id, NewSession(id, uuid.NewString, t0), time.Hour))
				_, err := store.Load(ctx, id)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	m := NewMemoryStore()
	now := t0
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "s", NewSession("s", uuid.NewString, t0), time.Minute))
	_, err := m.Load(ctx, "s")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Load(ctx, "s")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, m.Len())
}

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := NewSession("s", uuid.NewString, t0)
	require.NoError(t, m.Save(ctx, "s", s, 0))

	s.Current().Name = "mutated after save"
	got, err := m.Load(ctx, "s")
	require.NoError(t, err)
	require.Equal(t, DefaultConversationName, got.Current().Name)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	runStoreSuite(t, store)
}

func TestSQLiteStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer store.Close()

	now := t0
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "old", NewSession("old", uuid.NewString, t0), time.Minute))
	require.NoError(t, store.Save(ctx, "keep", NewSession("keep", uuid.NewString, t0), time.Hour))

	now = now.Add(10 * time.Minute)
	_, err = store.Load(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Load(ctx, "keep")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "old2", NewSession("old2", uuid.NewString, t0), time.Minute))
	now = now.Add(time.Hour)
	n, err := store.Purge(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	first, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "s", NewSession("s", uuid.NewString, time.Now()), time.Hour))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	_, err = second.Load(ctx, "s")
	require.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("FOODSCOUT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FOODSCOUT_TEST_REDIS_URL not set")
	}
	store, err := NewRedisStore(context.Background(), url, "food_bot_test:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	runStoreSuite(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, config.StoreConfig{Backend: "SQLite", SQLitePath: filepath.Join(t.TempDir(), "x.db")}, nil)
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Backend: "etcd"}, nil)
	require.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(ctx, config.StoreConfig{Backend: "redis", RedisURL: "not a url"}, nil)
	require.Error(t, err)
}
