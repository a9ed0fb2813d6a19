// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/foodscout-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is one conversation with its history, as fetched from the
// backend.
type Transcript struct {
	Conversation model.Conversation `json:"conversation"`
	Messages     []model.Message    `json:"messages"`
	ExportedAt   time.Time          `json:"exported_at"`
}

// NewTranscript pairs a list entry with the history returned by a switch.
func NewTranscript(conv model.Conversation, history []model.Message) *Transcript {
	msgs := make([]model.Message, len(history))
	copy(msgs, history)
	return &Transcript{Conversation: conv, Messages: msgs}
}

// Title is the display name used for headings and filenames.
func (t *Transcript) Title() string {
	return t.Conversation.DisplayName()
}

// =============================================================================
// FORMATS
// =============================================================================

// Format names an export format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the names the CLI takes: html, htm, md, markdown, json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// NewExporter returns the exporter for f.
func NewExporter(f Format, opts *Options) (Exporter, error) {
	switch f {
	case FormatHTML:
		return NewHTMLExporter(opts), nil
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", f)
	}
}

// ExportTranscript writes t in format f and returns the output path.
func ExportTranscript(t *Transcript, f Format, opts *Options) (string, error) {
	exporter, err := NewExporter(f, opts)
	if err != nil {
		return "", err
	}
	return ExportToFile(t, exporter, opts)
}
