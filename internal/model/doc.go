// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the wire-level data structures shared by the
// foodscout client and server.
//
// # Key Types
//
//   - Conversation: a named, timestamped chat thread with an optional star
//   - Message: one transcript entry, role "user" or "ai"
//   - Timestamp: a lenient time that accepts RFC 3339 and naive ISO 8601
//
// # Ordering
//
// SortConversations is the single definition of list order: starred
// conversations first, then most recently updated first.
//
// # Usage
//
//	sorted := model.SortConversations(resp.Conversations)
//	label := model.TimeAgo(sorted[0].LastUpdated.Time, time.Now())
package model
