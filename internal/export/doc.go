// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to disk.
//
// # Supported Formats
//
//   - HTML: standalone page, bot replies rendered with format.HTML
//   - Markdown: frontmatter plus one section per message
//   - JSON: the transcript as fetched from the backend
//
// # Usage
//
//	t := export.NewTranscript(summary, history)
//	opts := export.DefaultOptions()
//	opts.OpenAfterExport = false
//	path, err := export.ExportTranscript(t, export.FormatHTML, opts)
package export
