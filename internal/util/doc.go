// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the foodscout client and
// server.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with the ellipsis counted
//   - PreviewRunes: first n runes plus "..." (conversation names, previews)
//   - StringWidth, TruncateWidth, PadWidth: column-aware helpers for CJK text
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	name := util.PreviewRunes(firstMessage, 20)
//	cell := util.PadWidth(name, 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
