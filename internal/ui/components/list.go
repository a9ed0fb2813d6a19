// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/foodscout-tui/internal/format"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

// Empty-list placeholder lines.
const (
	EmptyListTitle = "暂无对话记录"
	EmptyListHint  = "点击新建对话开始聊天"
)

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// ConversationList is everything the sidebar needs to render. Conversations
// must already be in display order.
type ConversationList struct {
	Conversations []model.Conversation
	CurrentID     string
	SelectedID    string
	Cursor        int
	Focused       bool
	ShowIcons     bool
	Compact       bool
	Now           time.Time
}

// Header returns the list title with the conversation count.
func (l ConversationList) Header() string {
	return fmt.Sprintf("对话 (%d)", len(l.Conversations))
}

func (l ConversationList) rowHeight() int {
	if l.Compact {
		return 1
	}
	return 2
}

// visibleRange returns the slice of rows that fits in height lines while
// keeping the cursor on screen.
func (l ConversationList) visibleRange(height int) (start, end int) {
	n := len(l.Conversations)
	per := height / l.rowHeight()
	if per < 1 {
		per = 1
	}
	if n <= per {
		return 0, n
	}
	cursor := l.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	start = cursor - per + 1
	if start < 0 {
		start = 0
	}
	end = start + per
	if end > n {
		end = n
		start = end - per
	}
	return start, end
}

// View renders the list body (without the pane border) into width columns
// and at most height lines.
func (l ConversationList) View(theme *styles.Theme, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.ListTitle.Render(l.Header()))
	b.WriteString("\n")
	height--

	if len(l.Conversations) == 0 {
		body := EmptyListTitle + "\n" + EmptyListHint
		b.WriteString(theme.Placeholder.Width(width).Render("\n" + body))
		return b.String()
	}

	now := l.Now
	if now.IsZero() {
		now = time.Now()
	}

	start, end := l.visibleRange(height)
	for i := start; i < end; i++ {
		b.WriteString(l.renderRow(theme, l.Conversations[i], i == l.Cursor, width, now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l ConversationList) renderRow(theme *styles.Theme, c model.Conversation, atCursor bool, width int, now time.Time) string {
	marker := "  "
	if atCursor && l.Focused {
		marker = styles.StatusIndicators.Cursor + " "
	}
	check := styles.StatusIndicators.Uncheck
	if c.ID == l.SelectedID {
		check = styles.StatusIndicators.Check
	}
	prefix := marker + check + " "
	if l.ShowIcons {
		prefix += format.IconFor(c.Name).Glyph + " "
	}

	star := ""
	if c.Starred {
		star = " " + styles.StatusIndicators.Star
	}

	nameWidth := width - util.StringWidth(prefix) - util.StringWidth(star)
	name := util.TruncateWidth(c.DisplayName(), nameWidth)

	nameStyle := theme.ListItem
	if c.ID == l.CurrentID {
		nameStyle = theme.ListItemActive
	}
	line := prefix + nameStyle.Render(name) + theme.Star.Render(star)
	if atCursor && l.Focused {
		line = theme.ListItemCursor.Render(prefix) + nameStyle.Render(name) + theme.Star.Render(star)
	}

	if l.Compact {
		return line
	}

	meta := fmt.Sprintf("%s · %d条消息", model.TimeAgo(c.LastUpdated.Time, now), c.MessageCount)
	if preview := c.Preview(); preview != "" {
		meta += " · " + preview
	}
	indent := strings.Repeat(" ", util.StringWidth(marker+check+" "))
	meta = util.TruncateWidth(meta, width-len(indent))
	return line + "\n" + indent + theme.ListMeta.Render(meta)
}
