// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/format"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/state"
	"github.com/jeranaias/foodscout-tui/internal/ui/components"
	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// =============================================================================
// FIXED TEXT
// =============================================================================

// Transcript texts shown in place of a reply or an empty history.
const (
	// WelcomeNewText is shown for an empty conversation the user opened.
	WelcomeNewText = "您好！我是食探AI，这是新的对话。请问今天想了解哪个地区或哪种类型的美食呢？"

	// WelcomeIntroText is shown when the current conversation is restored empty.
	WelcomeIntroText = "您好！我是食探AI，专注于全国美食推荐。我可以根据您的口味偏好、地理位置和用餐场景，为您推荐最合适的美食。请问今天想了解哪个地区或哪种类型的美食呢？"

	// WelcomeFallbackText is shown when the current conversation cannot be loaded.
	WelcomeFallbackText = "欢迎使用食探AI！请问今天想了解什么美食呢？"

	// NetworkFailureReply replaces the reply after a transport failure.
	NetworkFailureReply = "抱歉，网络请求失败，请检查网络连接。"

	// BotFailurePrefix precedes the server's reply on an application failure.
	BotFailurePrefix = "抱歉，机器人暂时无法回复："

	defaultConversationName = "新对话"
	newConversationPrompt   = "请输入新对话的名称（可选）："
	selectFirstText         = "请先选择一个对话"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Focus is the pane receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusList
	FocusTranscript
	focusCount
)

// modalPurpose records what closing the open modal should do.
type modalPurpose int

const (
	purposeAlert modalPurpose = iota
	purposeNewConversation
	purposeNameForSend
	purposeDelete
	purposeClear
)

// entry is one transcript row.
type entry struct {
	msg model.Message
	at  time.Time

	// failed marks error text shown in place of a reply.
	failed bool

	// welcome marks the canned greeting, which is not part of the history.
	welcome bool
}

// Options configures the chat screen. Zero values pick defaults.
type Options struct {
	Theme     *styles.Theme
	Renderer  *format.Renderer
	Logger    *zap.Logger
	ShowIcons bool
	Compact   bool
	ExportDir string

	// OpenExports opens exported transcripts in the default application.
	OpenExports bool

	Now func() time.Time
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	backend  Backend
	logger   *zap.Logger
	theme    *styles.Theme
	renderer *format.Renderer
	keys     KeyMap

	// Conversation list state, shared by copies of the model.
	state *state.State

	// UI components
	viewport viewport.Model
	input    textinput.Model
	typing   components.Typing
	toasts   *components.ToastManager

	// Open modal and its follow-up
	modal         *components.Modal
	purpose       modalPurpose
	pendingSend   string
	pendingTarget string

	// Transcript of the current conversation
	transcript  []entry
	rendered    string
	currentName string

	// Chat request in flight
	waiting    bool
	waitingFor string

	focus    Focus
	showHelp bool
	width    int
	height   int

	showIcons   bool
	compact     bool
	exportDir   string
	openExports bool
	now         func() time.Time
}

// New creates the chat screen backed by b.
func New(b Backend, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = format.NewRenderer(theme.GlamourStyle())
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "问问食探：附近有什么好吃的火锅？"
	ti.CharLimit = 2000
	ti.Focus()

	return Model{
		backend:     b,
		logger:      logger,
		theme:       theme,
		renderer:    renderer,
		keys:        DefaultKeyMap(),
		state:       state.New(),
		viewport:    viewport.New(0, 0),
		input:       ti,
		typing:      components.NewTyping(),
		toasts:      components.NewToastManager(),
		focus:       FocusInput,
		showIcons:   opts.ShowIcons,
		compact:     opts.Compact,
		exportDir:   opts.ExportDir,
		openExports: opts.OpenExports,
		now:         now,
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the conversation list state.
func (m Model) State() *state.State {
	return m.state
}

// Focus returns the focused pane.
func (m Model) Focus() Focus {
	return m.focus
}

// Waiting reports whether a chat reply is pending.
func (m Model) Waiting() bool {
	return m.waiting
}

// ModalOpen reports whether a modal dialog is showing.
func (m Model) ModalOpen() bool {
	return m.modal != nil
}

// Transcript returns the displayed messages in order.
func (m Model) Transcript() []model.Message {
	out := make([]model.Message, len(m.transcript))
	for i, e := range m.transcript {
		out[i] = e.msg
	}
	return out
}

// InputValue returns the text in the input line.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Toasts returns the visible toasts.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init loads the conversation list and restores the current conversation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		components.ToastTickCmd(),
		LoadConversationsCmd(m.backend, true),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.ToastTickMsg:
		m.toasts.Tick(msg.Time)
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		if m.typing.Active() {
			m.refreshViewport(false)
		}
		return m, cmd

	case ConversationsLoadedMsg:
		return m.handleConversationsLoaded(msg)

	case ConversationSwitchedMsg:
		return m.handleConversationSwitched(msg)

	case ConversationCreatedMsg:
		return m.handleConversationCreated(msg)

	case ConversationDeletedMsg:
		return m.handleConversationDeleted(msg)

	case ConversationStarredMsg:
		return m.handleConversationStarred(msg)

	case HistoryClearedMsg:
		return m.handleHistoryCleared(msg)

	case ChatReplyMsg:
		return m.handleChatReply(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)
	}

	// Cursor blink and other component messages
	if m.modal != nil {
		_, cmd := m.modal.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat screen.
func (m Model) View() string {
	return m.renderScreen()
}

// =============================================================================
// LAYOUT
// =============================================================================

// Fixed heights, kept in sync with view.go.
const (
	headerHeight    = 1
	inputHeight     = 3
	statusBarHeight = 1
	paneBorder      = 2
)

// layout is the computed pane geometry.
type layout struct {
	sidebarWidth    int
	transcriptWidth int
	bodyHeight      int
}

func (m Model) layout() layout {
	sidebar := 34
	if m.width < 80 {
		sidebar = 26
	}
	if sidebar > m.width/2 {
		sidebar = m.width / 2
	}
	body := m.height - headerHeight - inputHeight - statusBarHeight
	if body < paneBorder+1 {
		body = paneBorder + 1
	}
	return layout{
		sidebarWidth:    sidebar,
		transcriptWidth: m.width - sidebar,
		bodyHeight:      body,
	}
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	l := m.layout()
	vpWidth := l.transcriptWidth - paneBorder - 2
	if vpWidth < 10 {
		vpWidth = 10
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = l.bodyHeight - paneBorder

	// Border and padding of the input box plus the prompt.
	inputWidth := m.width - 4 - 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.refreshViewport(true)
	return m, nil
}

// setFocus moves keyboard focus to f.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	if f == FocusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}
