// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Tangerine - Brand color, user bubbles, focused borders
var Tangerine = lipgloss.AdaptiveColor{Light: "#EA580C", Dark: "#FB923C"}

// TangerineDeep - Darker tangerine for backgrounds
var TangerineDeep = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#7C2D12"}

// Jade - Bot replies, success states
var Jade = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Gold - Starred conversations
var Gold = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FACC15"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, destructive confirmations
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Sky - Informational toasts
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFBF7", Dark: "#1C1917"}

// SurfaceDim - Headers, status bar, toasts
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#FDF2E9", Dark: "#171412"}

// SurfaceBright - Highlighted list row
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FFEDD5", Dark: "#3A2F28"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E7D8CB", Dark: "#44403C"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#292524", Dark: "#F5F5F4"}

// TextSecondary - Labels, list metadata
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#D6D3D1"}

// TextMuted - Hints, timestamps, placeholders
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#7C2D12", Dark: "#FFEDD5"}
var UserBubbleBorder = Tangerine

var BotBubbleFg = TextPrimary
var BotBubbleBorder = Jade

var ErrorBubbleFg = lipgloss.AdaptiveColor{Light: "#9F1239", Dark: "#FECDD3"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators pair every status color with a shape so state is readable
// without color.
var StatusIndicators = struct {
	Success string
	Error   string
	Warning string
	Info    string
	Star    string
	Unstar  string
	Check   string
	Uncheck string
	Cursor  string
}{
	Success: "✓",
	Error:   "✗",
	Warning: "⚠",
	Info:    "ℹ",
	Star:    "★",
	Unstar:  "☆",
	Check:   "[x]",
	Uncheck: "[ ]",
	Cursor:  "▸",
}
