// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// init matches lipgloss to the terminal, honoring NO_COLOR and pipes.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Tangerine).
			MarginBottom(1)

	// SectionStyle heads a group of fields.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// LabelStyle is a fixed-width field label.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Jade).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)

	// PromptStyle colors the REPL prompt marker.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Tangerine).
			Bold(true)

	// BotLabelStyle labels bot replies in the REPL.
	BotLabelStyle = lipgloss.NewStyle().
			Foreground(styles.Jade).
			Bold(true)

	StarStyle = lipgloss.NewStyle().
			Foreground(styles.Gold)
)

// =============================================================================
// HELPERS
// =============================================================================

// RenderSeparator renders a horizontal rule, 60 columns unless given.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("─", w))
}

// RenderStatus colors a status word.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "active", "online", "yes":
		return SuccessStyle.Render(status)
	case "inactive", "offline", "error", "no":
		return ErrorStyle.Render(status)
	default:
		return WarningStyle.Render(status)
	}
}

// RenderField renders "label value" on one line.
func RenderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
