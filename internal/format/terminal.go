// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Terminal render styles.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	// StylePlain skips glamour and renders with lipgloss only.
	StylePlain = "plain"
)

// minRenderWidth keeps word wrapping sane in very narrow panes.
const minRenderWidth = 20

// Renderer renders bot replies for a terminal. glamour renderers are built
// lazily per wrap width and cached. Safe for concurrent use.
type Renderer struct {
	mu       sync.Mutex
	style    string
	cache    map[int]*glamour.TermRenderer
	boldText lipgloss.Style
}

// NewRenderer creates a renderer for the given style (see Style* constants).
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = StyleAuto
	}
	return &Renderer{
		style:    style,
		cache:    make(map[int]*glamour.TermRenderer),
		boldText: lipgloss.NewStyle().Bold(true),
	}
}

// Render renders content wrapped to width columns. Trailing blank lines that
// glamour adds are trimmed.
func (r *Renderer) Render(content string, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}
	if strings.TrimSpace(content) == "" {
		return ""
	}

	if tr := r.glamourFor(width); tr != nil {
		if out, err := tr.Render(hardBreaks(content)); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return r.Plain(content, width)
}

// Plain renders content with lipgloss only: **bold** becomes bold text and
// lines are wrapped to width.
func (r *Renderer) Plain(content string, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}
	text := strings.ReplaceAll(content, "\r\n", "\n")
	text = boldPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(m, "**"), "**")
		return r.boldText.Render(inner)
	})
	return lipgloss.NewStyle().Width(width).Render(text)
}

func (r *Renderer) glamourFor(width int) *glamour.TermRenderer {
	if r.style == StylePlain {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		tr = nil
	}
	// Failures are cached too so a broken style is not retried per message.
	r.cache[width] = tr
	return tr
}

// hardBreaks turns single newlines into markdown hard breaks. Bot replies use
// line structure (one recommendation per line) that plain markdown would
// otherwise reflow into one paragraph.
func hardBreaks(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i := 0; i < len(lines)-1; i++ {
		if strings.TrimSpace(lines[i]) != "" && strings.TrimSpace(lines[i+1]) != "" {
			lines[i] = strings.TrimRight(lines[i], " ") + "  "
		}
	}
	return strings.Join(lines, "\n")
}
