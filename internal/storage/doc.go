// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the client's small amount of local persistence.
//
// Conversations and messages are never cached locally; the backend is the
// source of truth. What the client does keep is the backend session cookie,
// so the same conversation list comes back after a restart.
//
// # Key Types
//
//   - CookieStore: JSON file of session cookies keyed by backend origin
//
// # Usage
//
//	store, err := storage.NewCookieStore("")
//	cookies, err := store.Load(baseURL)
//	err = store.Save(baseURL, jar.Cookies(baseURL))
package storage
