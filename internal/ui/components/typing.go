// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// TypingText is shown while a reply is pending.
var TypingText = model.RoleAI.DisplayName() + " 正在思考"

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// Typing is the pending-reply indicator shown under the transcript.
type Typing struct {
	spinner   spinner.Model
	active    bool
	startTime time.Time
}

// NewTyping creates an inactive indicator.
func NewTyping() Typing {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	return Typing{spinner: s}
}

// Start shows the indicator and returns the first tick.
func (t *Typing) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop hides the indicator.
func (t *Typing) Stop() {
	t.active = false
}

// Active reports whether the indicator is shown.
func (t Typing) Active() bool {
	return t.active
}

// Elapsed returns the time since Start.
func (t Typing) Elapsed() time.Duration {
	if !t.active || t.startTime.IsZero() {
		return 0
	}
	return time.Since(t.startTime)
}

// Update advances the animation. Ticks stop once the indicator is hidden.
func (t Typing) Update(msg tea.Msg) (Typing, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or "" when inactive.
func (t Typing) View(theme *styles.Theme) string {
	if !t.active {
		return ""
	}
	text := TypingText + t.spinner.View()
	if secs := int(t.Elapsed().Seconds()); secs >= 5 {
		text += fmt.Sprintf(" (%ds)", secs)
	}
	return theme.Typing.Render(text)
}
