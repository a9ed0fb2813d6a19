// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/foodscout-tui/internal/ui/components"
	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderScreen renders the complete screen.
// Layout: header (1) + body (list | transcript) + input (3) + status (1).
// The heights must match the constants in model.go.
func (m Model) renderScreen() string {
	if m.width == 0 || m.height == 0 {
		return "加载中..."
	}

	if m.modal != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.modal.View(m.theme, m.width))
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderInput(),
		m.renderStatusBar(),
	)

	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		return m.overlayToasts(base, components.RenderToastStack(toasts, m.width))
	}
	return base
}

// overlayToasts draws the toast stack over the bottom-right corner, above
// the input box.
func (m Model) overlayToasts(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	toastLines := strings.Split(overlay, "\n")

	startRow := len(baseLines) - len(toastLines) - inputHeight - statusBarHeight
	if startRow < 0 {
		startRow = 0
	}

	for i, line := range toastLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		w := lipgloss.Width(line)
		cut := m.width - w - 1
		if cut < 0 {
			cut = 0
		}
		left := util.PadWidth(stripToWidth(baseLines[row], cut), cut)
		baseLines[row] = left + line
	}
	return strings.Join(baseLines, "\n")
}

// stripToWidth truncates a styled line to width columns. Styling on the kept
// part is dropped, which only affects the cells next to a toast.
func stripToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	plain := stripANSI(s)
	return util.TruncateWidth(plain, width)
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("食探 FoodScout")

	name := m.currentName
	status := ""
	if c, ok := m.state.Current(); ok {
		name = c.DisplayName()
		status = fmt.Sprintf("在线 · %d 条消息", c.MessageCount)
	} else if name != "" {
		status = "在线"
	}
	if name == "" {
		name = "未选择对话"
	}

	info := m.theme.HeaderInfo.Render(name)
	if status != "" {
		info += m.theme.HeaderInfo.Render("  " + status)
	}

	gap := m.width - 2 - lipgloss.Width(brand) - lipgloss.Width(info)
	if gap < 1 {
		gap = 1
	}
	line := brand + strings.Repeat(" ", gap) + info
	return m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(line)
}

// =============================================================================
// BODY
// =============================================================================

func (m Model) renderBody() string {
	l := m.layout()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList(l),
		m.renderTranscript(l),
	)
}

func (m Model) renderList(l layout) string {
	pane := m.theme.Sidebar
	if m.focus == FocusList {
		pane = m.theme.SidebarFocused
	}
	innerWidth := l.sidebarWidth - paneBorder
	innerHeight := l.bodyHeight - paneBorder

	list := components.ConversationList{
		Conversations: m.state.Sorted(),
		CurrentID:     m.state.CurrentID,
		SelectedID:    m.state.SelectedID,
		Cursor:        m.state.Cursor,
		Focused:       m.focus == FocusList,
		ShowIcons:     m.showIcons,
		Compact:       m.compact,
		Now:           m.now(),
	}
	body := list.View(m.theme, innerWidth, innerHeight)

	return pane.
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(l.bodyHeight).
		Render(body)
}

func (m Model) renderTranscript(l layout) string {
	pane := m.theme.Transcript
	if m.focus == FocusTranscript {
		pane = m.theme.TranscriptFocused
	}
	innerWidth := l.transcriptWidth - paneBorder
	innerHeight := l.bodyHeight - paneBorder

	return pane.
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(l.bodyHeight).
		PaddingLeft(1).
		Render(m.viewport.View())
}

// refreshViewport re-renders the transcript into the viewport. The message
// rendering is cached; only the typing line is redrawn on spinner ticks.
func (m *Model) refreshViewport(rerender bool) {
	if rerender || m.rendered == "" {
		m.rendered = m.renderMessages()
	}
	content := m.rendered
	if v := m.typing.View(m.theme); v != "" {
		content += "\n\n" + v
	}
	m.viewport.SetContent(content)
	if rerender {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderMessages() string {
	width := m.viewport.Width
	if width <= 0 {
		return ""
	}
	parts := make([]string, 0, len(m.transcript))
	for _, e := range m.transcript {
		parts = append(parts, m.renderEntry(e, width))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderEntry(e entry, width int) string {
	stamp := e.msg.Timestamp
	if stamp == "" && !e.at.IsZero() {
		stamp = e.at.Format("15:04")
	}

	labelStyle := m.theme.BotLabel
	if e.msg.IsUser() {
		labelStyle = m.theme.UserLabel
	}
	label := labelStyle.Render(e.msg.Role.DisplayName())
	if stamp != "" {
		label += " " + m.theme.Timestamp.Render(stamp)
	}

	// Bubble border and padding take two columns.
	bodyWidth := width - 2
	var body string
	switch {
	case e.failed:
		body = m.theme.ErrorBubble.Width(bodyWidth).Render(styles.StatusIndicators.Error + " " + e.msg.Content)
	case e.msg.IsUser():
		body = m.theme.UserBubble.Width(bodyWidth).Render(e.msg.Content)
	default:
		body = m.theme.BotBubble.Render(m.renderer.Render(e.msg.Content, bodyWidth-1))
	}
	return label + "\n" + body
}

// =============================================================================
// INPUT AND STATUS BAR
// =============================================================================

func (m Model) renderInput() string {
	box := m.theme.Input
	if m.focus == FocusInput {
		box = m.theme.InputFocused
	}
	return box.Width(m.width - paneBorder).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.state.CanMutate() {
		c, _ := m.state.Selected()
		mark := styles.StatusIndicators.Unstar
		if m.state.SelectedStarred() {
			mark = styles.StatusIndicators.Star
		}
		parts = append(parts, m.theme.Star.Render(mark)+" "+util.TruncateWidth(c.DisplayName(), 16))
	} else {
		parts = append(parts, m.theme.ShortcutDesc.Render(selectFirstText))
	}

	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, m.theme.ShortcutKey.Render(b.Help().Key)+" "+m.theme.ShortcutDesc.Render(b.Help().Desc))
	}

	line := strings.Join(parts, "  ")
	if lipgloss.Width(line) > m.width-2 {
		line = util.TruncateWidth(stripANSI(line), m.width-2)
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusBarHeight).Render(line)
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelpOverlay() string {
	titles := []string{"对话", "导航", "通用"}
	var sections []string
	for i, group := range m.keys.FullHelp() {
		lines := []string{m.theme.ModalTitle.Render(titles[i])}
		for _, b := range group {
			lines = append(lines, helpLine(m.theme, b))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	sections = append(sections, m.theme.ModalHint.Render("输入框外按 ? 也可打开帮助 · 任意键关闭"))

	box := m.theme.ModalBox.Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func helpLine(theme *styles.Theme, b key.Binding) string {
	h := b.Help()
	return theme.ShortcutKey.Render(util.PadWidth(h.Key, 10)) + theme.ShortcutDesc.Render(h.Desc)
}
