// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// =============================================================================
// MODAL TYPES
// =============================================================================

// ModalKind selects the dialog behavior.
type ModalKind int

const (
	// ModalAlert shows a message until dismissed.
	ModalAlert ModalKind = iota
	// ModalConfirm asks a yes/no question.
	ModalConfirm
	// ModalPrompt asks for a line of text.
	ModalPrompt
)

// ModalResult is returned by Update.
type ModalResult int

const (
	// ModalPending means the dialog is still open.
	ModalPending ModalResult = iota
	// ModalAccepted means OK/yes/enter.
	ModalAccepted
	// ModalCancelled means cancel/no/esc.
	ModalCancelled
)

// maxModalWidth caps the dialog box width.
const maxModalWidth = 56

// Modal is a blocking dialog. While one is open it receives every key.
type Modal struct {
	Kind   ModalKind
	Title  string
	Body   string
	Danger bool

	input    textinput.Model
	focusYes bool
}

// NewAlert creates an alert dialog.
func NewAlert(title, body string) *Modal {
	return &Modal{Kind: ModalAlert, Title: title, Body: body, Danger: true, focusYes: true}
}

// NewConfirm creates a yes/no dialog. Danger dialogs focus "cancel" first.
func NewConfirm(title, body string, danger bool) *Modal {
	return &Modal{Kind: ModalConfirm, Title: title, Body: body, Danger: danger, focusYes: !danger}
}

// NewPrompt creates a text prompt pre-filled with value.
func NewPrompt(title, body, value string) *Modal {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 100
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return &Modal{Kind: ModalPrompt, Title: title, Body: body, input: ti, focusYes: true}
}

// Value returns the prompt text, trimmed.
func (m *Modal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Init starts the prompt cursor blinking.
func (m *Modal) Init() tea.Cmd {
	if m.Kind == ModalPrompt {
		return textinput.Blink
	}
	return nil
}

// Update handles a message and reports whether the dialog closed.
func (m *Modal) Update(msg tea.Msg) (ModalResult, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.Kind == ModalPrompt {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return ModalPending, cmd
		}
		return ModalPending, nil
	}

	switch keyMsg.String() {
	case "esc", "ctrl+c":
		if m.Kind == ModalAlert {
			return ModalAccepted, nil
		}
		return ModalCancelled, nil
	case "enter":
		if m.Kind == ModalConfirm && !m.focusYes {
			return ModalCancelled, nil
		}
		return ModalAccepted, nil
	}

	switch m.Kind {
	case ModalConfirm:
		switch keyMsg.String() {
		case "y", "Y":
			return ModalAccepted, nil
		case "n", "N":
			return ModalCancelled, nil
		case "left", "right", "tab", "shift+tab", "h", "l":
			m.focusYes = !m.focusYes
		}
	case ModalPrompt:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return ModalPending, cmd
	}
	return ModalPending, nil
}

// View renders the dialog box. The caller centers it.
func (m *Modal) View(theme *styles.Theme, width int) string {
	boxWidth := maxModalWidth
	if width > 0 && width-4 < boxWidth {
		boxWidth = width - 4
	}
	if boxWidth < 24 {
		boxWidth = 24
	}
	inner := boxWidth - 6

	var parts []string
	title := m.Title
	if m.Kind == ModalAlert {
		title = styles.StatusIndicators.Warning + " " + title
	}
	parts = append(parts, theme.ModalTitle.Render(title))
	if m.Body != "" {
		parts = append(parts, theme.ModalBody.Width(inner).Render(m.Body))
	}

	switch m.Kind {
	case ModalAlert:
		parts = append(parts, theme.ModalHint.Render("Enter 确定"))
	case ModalConfirm:
		yes, no := theme.ButtonInactive, theme.ButtonInactive
		if m.focusYes {
			yes = theme.ButtonActive
		} else {
			no = theme.ButtonActive
		}
		buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("确定"), "  ", no.Render("取消"))
		parts = append(parts, "", buttons, theme.ModalHint.Render("←/→ 切换 · y/n · Enter 确认 · Esc 取消"))
	case ModalPrompt:
		m.input.Width = inner - 3
		parts = append(parts, "", m.input.View(), theme.ModalHint.Render("Enter 确定 · Esc 取消"))
	}

	box := theme.ModalBox
	if m.Danger {
		box = theme.ModalDanger
	}
	return box.Width(boxWidth).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
