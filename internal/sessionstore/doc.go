// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sessionstore holds server-side chat sessions.
//
// A Session is everything one browser or terminal client owns: its
// conversations, their bounded histories and the current conversation id.
// The server loads the session named by the signed cookie at the start of a
// request, mutates it through the Session methods and saves it back with a
// sliding TTL.
//
// Three Store backends are provided:
//
//   - MemoryStore: process-local, for development and tests.
//   - RedisStore: shared across server replicas, keys "food_bot:<id>".
//   - SQLiteStore: single-node persistence in one file.
//
// Sessions are stored as JSON in every backend.
package sessionstore
