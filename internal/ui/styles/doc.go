// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the foodscout TUI.

All colors are lipgloss.AdaptiveColor values so light and dark terminals both
get a readable palette. Theme bundles the styles the chat screen uses and can
be forced light or dark from the ui.theme config key.

# Color System (colors.go)

  - Tangerine - brand accent, user bubbles, focused pane
  - Jade - bot replies and success toasts
  - Gold - starred conversations
  - Rose - errors and destructive confirmations
  - Amber - warnings
  - Sky - informational toasts

Status colors always come with a shape from StatusIndicators.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	header := theme.Header.Render("食探")
*/
package styles
