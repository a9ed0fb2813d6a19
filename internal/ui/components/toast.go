// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindInfo is an informational toast (sky)
	ToastKindInfo ToastKind = iota
	// ToastKindSuccess is a success toast (jade)
	ToastKindSuccess
	// ToastKindWarning is a warning toast (amber)
	ToastKindWarning
	// ToastKindError is an error toast (rose)
	ToastKindError
)

// Auto-dismiss durations.
const (
	DefaultToastDuration = 3 * time.Second
	ShortToastDuration   = 2 * time.Second
	ErrorToastDuration   = 6 * time.Second
)

// maxToasts is how many toasts are visible at once.
const maxToasts = 4

// Toast is a non-blocking notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast. A zero duration picks the kind's default.
func NewToast(message string, kind ToastKind, d time.Duration) Toast {
	if d <= 0 {
		d = DefaultToastDuration
		if kind == ToastKindError {
			d = ErrorToastDuration
		}
	}
	return Toast{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// IsExpiredAt reports whether the toast should be gone at now.
func (t Toast) IsExpiredAt(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1}
}

// Add shows a toast and returns its id. The oldest toast is dropped past
// the visible limit.
func (m *ToastManager) Add(t Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// Success shows a success toast with the default duration.
func (m *ToastManager) Success(msg string) int {
	return m.Add(NewToast(msg, ToastKindSuccess, 0))
}

// Info shows an informational toast for d (0 = default).
func (m *ToastManager) Info(msg string, d time.Duration) int {
	return m.Add(NewToast(msg, ToastKindInfo, d))
}

// Error shows an error toast.
func (m *ToastManager) Error(msg string) int {
	return m.Add(NewToast(msg, ToastKindError, 0))
}

// Remove dismisses a toast by id.
func (m *ToastManager) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops toasts expired at now and returns the rest.
func (m *ToastManager) Tick(now time.Time) []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpiredAt(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return m.snapshotLocked()
}

// Toasts returns a copy of the visible toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *ToastManager) snapshotLocked() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of visible toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg drives expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks toasts every 200ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

func toastColors(kind ToastKind) (lipgloss.AdaptiveColor, string) {
	switch kind {
	case ToastKindError:
		return styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		return styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		return styles.Jade, styles.StatusIndicators.Success
	default:
		return styles.Sky, styles.StatusIndicators.Info
	}
}

// RenderToast renders a single toast no wider than width columns.
func RenderToast(t Toast, width int) string {
	maxWidth := 48
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	color, icon := toastColors(t.Kind)
	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	// Width wraps by display cells, which handles CJK text without spaces.
	msgStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Width(maxWidth - 6)

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	return box.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		iconStyle.Render(icon+" "),
		msgStyle.Render(strings.TrimSpace(t.Message)),
	))
}

// RenderToastStack renders toasts stacked vertically, newest at the bottom.
func RenderToastStack(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		rendered = append(rendered, RenderToast(toasts[i], width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
