// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the chat screen.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER AND STATUS BAR
	// ==========================================================================

	Header       lipgloss.Style
	HeaderBrand  lipgloss.Style
	HeaderInfo   lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// CONVERSATION LIST
	// ==========================================================================

	Sidebar        lipgloss.Style
	SidebarFocused lipgloss.Style
	ListTitle      lipgloss.Style
	ListItem       lipgloss.Style
	ListItemCursor lipgloss.Style
	ListItemActive lipgloss.Style
	ListMeta       lipgloss.Style
	Star           lipgloss.Style
	Placeholder    lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	Transcript        lipgloss.Style
	TranscriptFocused lipgloss.Style
	UserLabel         lipgloss.Style
	BotLabel          lipgloss.Style
	UserBubble        lipgloss.Style
	BotBubble         lipgloss.Style
	ErrorBubble       lipgloss.Style
	Timestamp         lipgloss.Style
	Typing            lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	InputPrompt  lipgloss.Style

	// ==========================================================================
	// MODAL
	// ==========================================================================

	ModalBox       lipgloss.Style
	ModalDanger    lipgloss.Style
	ModalTitle     lipgloss.Style
	ModalBody      lipgloss.Style
	ModalHint      lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style

	// ==========================================================================
	// STATUS STYLES (color always paired with a StatusIndicators shape)
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme. mode is "auto", "dark" or "light"; auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

func (t *Theme) initStyles() {
	// Header and status bar
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Tangerine)

	t.HeaderInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Tangerine).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Conversation list
	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.Sidebar = pane.Copy()
	t.SidebarFocused = pane.Copy().BorderForeground(Tangerine)

	t.ListTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		PaddingLeft(1)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ListItemCursor = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Bold(true)

	t.ListItemActive = lipgloss.NewStyle().
		Foreground(Tangerine).
		Bold(true)

	t.ListMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Star = lipgloss.NewStyle().
		Foreground(Gold)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center)

	// Transcript
	t.Transcript = pane.Copy()
	t.TranscriptFocused = pane.Copy().BorderForeground(Tangerine)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Tangerine).
		Bold(true)

	t.BotLabel = lipgloss.NewStyle().
		Foreground(Jade).
		Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(UserBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BotBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Typing = lipgloss.NewStyle().
		Foreground(Jade).
		Italic(true)

	// Input
	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.Input.Copy().BorderForeground(Tangerine)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Tangerine).
		Bold(true)

	// Modal
	t.ModalBox = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Tangerine).
		Padding(1, 2)

	t.ModalDanger = t.ModalBox.Copy().BorderForeground(Rose)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.ModalBody = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ModalHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		MarginTop(1)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Tangerine).
		Bold(true).
		Padding(0, 2)

	t.ButtonInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(Overlay).
		Padding(0, 2)

	// Status styles
	t.SuccessStyle = lipgloss.NewStyle().Foreground(Jade).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Sky).Bold(true)
}
