// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/format"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/ui/components"
	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

// fakeBackend is a tiny in-memory conversation server.
type fakeBackend struct {
	mu      sync.Mutex
	convs   []model.Conversation
	history map[string][]model.Message
	current string
	nextID  int
	base    time.Time

	listErr, switchErr, newErr, deleteErr, starErr, chatErr, clearErr error

	reply    string
	calls    map[string]int
	sent     []string
	newNames []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		history: make(map[string][]model.Message),
		calls:   make(map[string]int),
		base:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		reply:   "推荐您试试**海底捞**。",
	}
}

func (f *fakeBackend) add(id, name string, starred bool, history ...model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs = append(f.convs, model.Conversation{
		ID:          id,
		Name:        name,
		Starred:     starred,
		LastUpdated: model.NewTimestamp(f.base.Add(time.Duration(len(f.convs)) * time.Minute)),
	})
	f.history[id] = history
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls["new"] + f.calls["delete"] + f.calls["star"] + f.calls["chat"] + f.calls["clear"]
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) index(id string) int {
	for i, c := range f.convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeBackend) ListConversations(ctx context.Context) (*api.ListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Conversation, len(f.convs))
	for i, c := range f.convs {
		c.MessageCount = len(f.history[c.ID]) / 2
		c.IsCurrent = c.ID == f.current
		out[i] = c
	}
	return &api.ListResponse{Conversations: out, CurrentConversationID: f.current}, nil
}

func (f *fakeBackend) SwitchConversation(ctx context.Context, id string) (*api.SwitchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["switch"]++
	if f.switchErr != nil {
		return nil, f.switchErr
	}
	i := f.index(id)
	if i < 0 {
		return nil, &api.APIError{Endpoint: api.PathSwitch, Message: "对话不存在"}
	}
	f.current = id
	return &api.SwitchResponse{
		ConversationID:   id,
		History:          append([]model.Message(nil), f.history[id]...),
		ConversationName: f.convs[i].Name,
	}, nil
}

func (f *fakeBackend) NewConversation(ctx context.Context, name string) (*api.MutationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["new"]++
	f.newNames = append(f.newNames, name)
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.nextID++
	id := fmt.Sprintf("new-%d", f.nextID)
	f.convs = append(f.convs, model.Conversation{ID: id, Name: name, LastUpdated: model.NewTimestamp(f.base.Add(time.Hour))})
	f.current = id
	return &api.MutationResponse{Message: "新对话创建成功", ConversationID: id}, nil
}

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) (*api.MutationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	i := f.index(id)
	if i < 0 {
		return nil, &api.APIError{Endpoint: api.PathDelete, Message: "对话不存在"}
	}
	f.convs = append(f.convs[:i], f.convs[i+1:]...)
	delete(f.history, id)
	if f.current == id {
		f.current = ""
		if len(f.convs) > 0 {
			f.current = f.convs[0].ID
		}
	}
	return &api.MutationResponse{Message: "对话已删除", CurrentConversationID: f.current}, nil
}

func (f *fakeBackend) StarConversation(ctx context.Context, id string) (*api.StarResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["star"]++
	if f.starErr != nil {
		return nil, f.starErr
	}
	i := f.index(id)
	if i < 0 {
		return nil, &api.APIError{Endpoint: api.PathStar, Message: "对话不存在"}
	}
	f.convs[i].Starred = !f.convs[i].Starred
	msg := "已取消标记"
	if f.convs[i].Starred {
		msg = "已标记"
	}
	return &api.StarResponse{Starred: f.convs[i].Starred, Message: msg}, nil
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (*api.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["chat"]++
	f.sent = append(f.sent, message)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	f.history[f.current] = append(f.history[f.current],
		model.Message{Role: model.RoleUser, Content: message, Timestamp: "12:30"},
		model.Message{Role: model.RoleAI, Content: f.reply, Timestamp: "12:30"},
	)
	return &api.ChatResponse{Reply: f.reply, ConversationID: f.current}, nil
}

func (f *fakeBackend) ClearHistory(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["clear"]++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.history[f.current] = nil
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

var testNow = time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T, b *fakeBackend) Model {
	t.Helper()
	m := New(b, Options{
		Theme:     styles.NewTheme(styles.ModeDark),
		Renderer:  format.NewRenderer(format.StylePlain),
		ShowIcons: true,
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return testNow },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// started returns a model that has run its initial load.
func started(t *testing.T, b *fakeBackend) Model {
	t.Helper()
	m := newTestModel(t, b)
	return run(t, m, m.Init())
}

// isChatMsg reports whether msg is one of the screen's result messages.
func isChatMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case ConversationsLoadedMsg, ConversationSwitchedMsg, ConversationCreatedMsg,
		ConversationDeletedMsg, ConversationStarredMsg, HistoryClearedMsg,
		ChatReplyMsg, ExportDoneMsg:
		return true
	}
	return false
}

// execCmd runs c, giving up on commands that wait on a timer.
func execCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

// run executes cmd and feeds every result message back into m until no
// backend work is left. Spinner, blink and toast ticks are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 500, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if !isChatMsg(msg) {
			continue
		}
		next, more := m.Update(msg)
		m = next.(Model)
		queue = append(queue, more)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one, running the resulting commands.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = run(t, next.(Model), cmd)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(keyMsg(text))
	return next.(Model)
}

func lastMessage(t *testing.T, m Model) model.Message {
	t.Helper()
	msgs := m.Transcript()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

func hasToast(m Model, text string) bool {
	for _, toast := range m.Toasts() {
		if strings.Contains(toast.Message, text) {
			return true
		}
	}
	return false
}

// seeded returns a backend with two conversations, b current with history.
func seeded() *fakeBackend {
	b := newFakeBackend()
	b.add("a", "火锅推荐", false)
	b.add("b", "北京烤鸭", false,
		model.Message{Role: model.RoleUser, Content: "烤鸭哪家好？", Timestamp: "12:00"},
		model.Message{Role: model.RoleAI, Content: "推荐**四季民福**。", Timestamp: "12:00"},
	)
	b.current = "b"
	return b
}

// =============================================================================
// LIST LOADING AND SWITCHING
// =============================================================================

func TestInit_RestoresCurrentConversation(t *testing.T) {
	m := started(t, seeded())

	assert.Equal(t, "b", m.State().CurrentID)
	assert.Equal(t, "b", m.State().SelectedID)
	msgs := m.Transcript()
	require.Len(t, msgs, 2)
	assert.Equal(t, "烤鸭哪家好？", msgs[0].Content)
	assert.Equal(t, model.RoleAI, msgs[1].Role)
}

func TestInit_NoCurrentSelectsFirstInDisplayOrder(t *testing.T) {
	b := seeded()
	b.current = ""
	b.convs[0].Starred = true

	m := started(t, b)

	assert.Equal(t, "a", m.State().CurrentID, "starred conversation sorts first")
	require.Len(t, m.Transcript(), 1)
	assert.Equal(t, WelcomeNewText, lastMessage(t, m).Content)
}

func TestSwitch_EmptyHistoryShowsWelcome(t *testing.T) {
	m := started(t, seeded())

	m = press(t, m, "tab")
	require.Equal(t, FocusList, m.Focus())
	m = press(t, m, "down", "enter")

	assert.Equal(t, "a", m.State().CurrentID)
	msgs := m.Transcript()
	require.Len(t, msgs, 1)
	assert.Equal(t, WelcomeNewText, msgs[0].Content)
}

func TestSwitch_RestoredEmptyShowsIntro(t *testing.T) {
	b := seeded()
	b.current = "a"

	m := started(t, b)

	assert.Equal(t, WelcomeIntroText, lastMessage(t, m).Content)
}

func TestSwitch_StaleResponseIgnored(t *testing.T) {
	m := started(t, seeded())
	st := m.State()

	oldTok := st.BeginSwitch("a")
	newTok := st.BeginSwitch("b")

	stale := ConversationSwitchedMsg{
		Token: oldTok, ID: "a", Origin: SwitchSelect,
		Resp: &api.SwitchResponse{ConversationID: "a", History: []model.Message{{Role: model.RoleUser, Content: "stale"}}},
	}
	next, cmd := m.Update(stale)
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "b", m.State().CurrentID)
	for _, msg := range m.Transcript() {
		assert.NotEqual(t, "stale", msg.Content)
	}

	fresh := ConversationSwitchedMsg{
		Token: newTok, ID: "b", Origin: SwitchRestore,
		Resp: &api.SwitchResponse{ConversationID: "b", History: []model.Message{{Role: model.RoleUser, Content: "fresh"}}},
	}
	next, _ = m.Update(fresh)
	m = next.(Model)
	assert.Equal(t, "fresh", lastMessage(t, m).Content)

	// A duplicate delivery of the accepted token is dropped too.
	next, cmd = m.Update(fresh)
	assert.Nil(t, cmd)
	_ = next
}

func TestSwitch_FailureAlertsAndKeepsState(t *testing.T) {
	b := seeded()
	m := started(t, b)
	before := m.Transcript()

	b.set(func(f *fakeBackend) { f.switchErr = &api.APIError{Endpoint: api.PathSwitch, Message: "对话不存在"} })
	m = press(t, m, "tab", "down", "enter")

	require.True(t, m.ModalOpen())
	assert.Equal(t, "切换对话失败: 对话不存在", m.modal.Body)
	assert.Equal(t, "b", m.State().CurrentID)
	assert.Equal(t, before, m.Transcript())
	assert.Equal(t, m.State().IndexOf("b"), m.State().Cursor, "cursor returns to the current conversation")

	m = press(t, m, "enter")
	assert.False(t, m.ModalOpen())
}

func TestSwitch_NetworkFailureText(t *testing.T) {
	b := seeded()
	m := started(t, b)

	b.set(func(f *fakeBackend) { f.switchErr = fmt.Errorf("%w: dial tcp: refused", api.ErrTransport) })
	m = press(t, m, "tab", "down", "enter")

	require.True(t, m.ModalOpen())
	assert.Equal(t, "切换对话失败，请检查网络", m.modal.Body)
}

func TestLoad_FailureKeepsStateAndToasts(t *testing.T) {
	b := seeded()
	m := started(t, b)
	before := append([]model.Conversation(nil), m.State().Conversations...)

	b.set(func(f *fakeBackend) { f.listErr = fmt.Errorf("%w: timeout", api.ErrTransport) })
	m = press(t, m, "ctrl+r")

	assert.Equal(t, before, m.State().Conversations)
	assert.Equal(t, "b", m.State().CurrentID)
	assert.True(t, hasToast(m, "网络错误"))
}

func TestLoad_EmptyListShowsPlaceholder(t *testing.T) {
	m := started(t, newFakeBackend())

	assert.True(t, m.State().IsEmpty())
	assert.Zero(t, m.backend.(*fakeBackend).count("switch"))
	view := m.View()
	assert.Contains(t, view, components.EmptyListTitle)
	assert.Contains(t, view, components.EmptyListHint)
	assert.Contains(t, view, "对话 (0)")
}

// =============================================================================
// SEND / RECEIVE
// =============================================================================

func TestSend_AppendsReplyAndRefreshes(t *testing.T) {
	b := seeded()
	m := started(t, b)
	lists := b.count("list")

	m = typeText(t, m, "  成都火锅  ")
	m = press(t, m, "enter")

	assert.Equal(t, []string{"成都火锅"}, b.sent)
	assert.False(t, m.Waiting())
	assert.Empty(t, m.InputValue())
	assert.Equal(t, b.reply, lastMessage(t, m).Content)
	assert.Greater(t, b.count("list"), lists, "list refreshed after reply")
	c, ok := m.State().Current()
	require.True(t, ok)
	assert.Equal(t, 2, c.MessageCount)
}

func TestSend_EmptyInputIgnored(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = typeText(t, m, "   ")
	m = press(t, m, "enter")

	assert.Zero(t, b.count("chat"))
	assert.False(t, m.ModalOpen())
}

func TestSend_WithoutConversationPromptsAndCancelSendsNothing(t *testing.T) {
	b := newFakeBackend()
	m := started(t, b)
	require.False(t, m.State().HasActive())

	m = typeText(t, m, "想吃火锅")
	m = press(t, m, "enter")
	require.True(t, m.ModalOpen())
	assert.Equal(t, components.ModalPrompt, m.modal.Kind)

	m = press(t, m, "esc")

	assert.False(t, m.ModalOpen())
	assert.Zero(t, b.mutations(), "cancel makes no network call")
	assert.Equal(t, "想吃火锅", m.InputValue())
}

func TestSend_WithoutConversationCreatesThenSends(t *testing.T) {
	b := newFakeBackend()
	m := started(t, b)

	m = typeText(t, m, "想吃火锅")
	m = press(t, m, "enter", "enter")

	assert.Equal(t, []string{"新对话"}, b.newNames)
	assert.Equal(t, []string{"想吃火锅"}, b.sent)
	assert.Equal(t, "new-1", m.State().CurrentID)
	msgs := m.Transcript()
	require.Len(t, msgs, 2)
	assert.Equal(t, "想吃火锅", msgs[0].Content)
	assert.Equal(t, b.reply, msgs[1].Content)
	assert.True(t, hasToast(m, "新对话创建成功"))
}

func TestSend_TransportFailure(t *testing.T) {
	b := seeded()
	m := started(t, b)
	b.set(func(f *fakeBackend) { f.chatErr = fmt.Errorf("%w: connection reset", api.ErrTransport) })

	m = typeText(t, m, "你好")
	m = press(t, m, "enter")

	assert.Equal(t, NetworkFailureReply, lastMessage(t, m).Content)
	assert.False(t, m.Waiting())
}

func TestSend_ApplicationFailure(t *testing.T) {
	b := seeded()
	m := started(t, b)
	b.set(func(f *fakeBackend) { f.chatErr = &api.APIError{Endpoint: api.PathChat, Message: "机器人服务暂不可用"} })

	m = typeText(t, m, "你好")
	m = press(t, m, "enter")

	assert.Equal(t, BotFailurePrefix+"机器人服务暂不可用", lastMessage(t, m).Content)
	assert.NotContains(t, m.history(), lastMessage(t, m), "failure notices are not history")
}

func TestChatReply_ForOtherConversationNotShown(t *testing.T) {
	m := started(t, seeded())

	next, _ := m.Update(ChatReplyMsg{ConversationID: "a", Resp: &api.ChatResponse{Reply: "late"}})
	m = next.(Model)

	for _, msg := range m.Transcript() {
		assert.NotEqual(t, "late", msg.Content)
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

func TestNewConversation_PromptAndRefresh(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = press(t, m, "ctrl+n")
	require.True(t, m.ModalOpen())
	m = press(t, m, "enter")

	assert.Equal(t, []string{"新对话"}, b.newNames)
	assert.Equal(t, "new-1", m.State().CurrentID)
	assert.Equal(t, WelcomeIntroText, lastMessage(t, m).Content)
	assert.True(t, hasToast(m, "新对话创建成功"))
}

func TestNewConversation_FailureAlerts(t *testing.T) {
	b := seeded()
	m := started(t, b)
	b.set(func(f *fakeBackend) { f.newErr = &api.APIError{Endpoint: api.PathNew, Message: "名称无效"} })

	m = press(t, m, "ctrl+n", "enter")

	require.True(t, m.ModalOpen())
	assert.Equal(t, "创建新对话失败: 名称无效", m.modal.Body)
}

func TestDelete_RequiresSelection(t *testing.T) {
	b := seeded()
	m := started(t, b)
	m.State().ClearSelection()

	m = press(t, m, "ctrl+d")

	require.True(t, m.ModalOpen())
	assert.Equal(t, components.ModalAlert, m.modal.Kind)
	assert.Equal(t, "请先选择一个对话", m.modal.Body)
	assert.Zero(t, b.count("delete"))
}

func TestDelete_ConfirmFlow(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = press(t, m, "ctrl+d")
	require.True(t, m.ModalOpen())
	assert.Equal(t, `确定要删除对话 "北京烤鸭" 吗？此操作不可撤销。`, m.modal.Body)

	m = press(t, m, "y")

	assert.Equal(t, 1, b.count("delete"))
	assert.False(t, m.State().Has("b"))
	assert.Equal(t, "a", m.State().CurrentID, "server picked a new current conversation")
	assert.True(t, hasToast(m, "对话已删除"))
}

func TestDelete_CancelMakesNoCall(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = press(t, m, "ctrl+d", "enter")

	assert.False(t, m.ModalOpen())
	assert.Zero(t, b.count("delete"), "danger confirm focuses cancel")
}

func TestDelete_FailureAlerts(t *testing.T) {
	b := seeded()
	m := started(t, b)
	b.set(func(f *fakeBackend) { f.deleteErr = &api.APIError{Endpoint: api.PathDelete, Message: "对话不存在"} })

	m = press(t, m, "ctrl+d", "y")

	require.True(t, m.ModalOpen())
	assert.Equal(t, "删除失败: 对话不存在", m.modal.Body)
	assert.True(t, m.State().Has("b"))
}

func TestStar_ToggleShowsServerMessage(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = press(t, m, "ctrl+s")

	c, ok := m.State().Find("b")
	require.True(t, ok)
	assert.True(t, c.Starred)
	assert.Equal(t, "b", m.State().Sorted()[0].ID, "starred conversation moves to the top")

	var found bool
	for _, toast := range m.Toasts() {
		if toast.Message == "已标记" {
			found = true
			assert.Equal(t, components.ShortToastDuration, toast.Duration)
		}
	}
	assert.True(t, found)
}

func TestStar_SelectWithSpaceTargetsCursor(t *testing.T) {
	b := seeded()
	m := started(t, b)
	m.State().ClearSelection()

	m = press(t, m, "tab", "down", "space")
	sel, ok := m.State().Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel.ID)

	m = press(t, m, "ctrl+s")
	assert.Equal(t, 1, b.count("star"))
	c, _ := m.State().Find("a")
	assert.True(t, c.Starred)
}

func TestStar_NetworkFailureAlerts(t *testing.T) {
	b := seeded()
	m := started(t, b)
	b.set(func(f *fakeBackend) { f.starErr = fmt.Errorf("%w: refused", api.ErrTransport) })

	m = press(t, m, "ctrl+s")

	require.True(t, m.ModalOpen())
	assert.Equal(t, "标记失败，请检查网络", m.modal.Body)
}

func TestStatusBar_FollowsSelection(t *testing.T) {
	b := seeded()
	m := started(t, b)

	bar := m.renderStatusBar()
	assert.Contains(t, bar, styles.StatusIndicators.Unstar)
	assert.Contains(t, bar, "北京烤鸭")

	m = press(t, m, "ctrl+s")
	bar = m.renderStatusBar()
	assert.Contains(t, bar, styles.StatusIndicators.Star)
	assert.NotContains(t, bar, styles.StatusIndicators.Unstar)

	m.State().ClearSelection()
	assert.Contains(t, m.renderStatusBar(), selectFirstText)
}

func TestStar_RequiresSelection(t *testing.T) {
	b := seeded()
	m := started(t, b)
	m.State().ClearSelection()

	m = press(t, m, "ctrl+s")

	require.True(t, m.ModalOpen())
	assert.Equal(t, selectFirstText, m.modal.Body)
	assert.Zero(t, b.count("star"))
}

func TestClear_ConfirmThenWelcome(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = press(t, m, "ctrl+l", "y")

	assert.Equal(t, 1, b.count("clear"))
	require.Len(t, m.Transcript(), 1)
	assert.Equal(t, WelcomeIntroText, lastMessage(t, m).Content)
	assert.True(t, hasToast(m, "历史记录已清空"))
}

// =============================================================================
// FOCUS, EXPORT, VIEW
// =============================================================================

func TestFocus_Cycles(t *testing.T) {
	m := started(t, seeded())
	require.Equal(t, FocusInput, m.Focus())

	m = press(t, m, "tab")
	assert.Equal(t, FocusList, m.Focus())
	m = press(t, m, "tab")
	assert.Equal(t, FocusTranscript, m.Focus())
	m = press(t, m, "tab")
	assert.Equal(t, FocusInput, m.Focus())

	m = press(t, m, "tab", "esc")
	assert.Equal(t, FocusInput, m.Focus())
}

func TestHelp_QuestionMarkOnlyOutsideInput(t *testing.T) {
	m := started(t, seeded())

	m = typeText(t, m, "?")
	assert.False(t, m.showHelp)
	assert.Equal(t, "?", m.InputValue())

	m = press(t, m, "tab", "?")
	assert.True(t, m.showHelp)
	m = press(t, m, "x")
	assert.False(t, m.showHelp)
}

func TestExport_WritesCurrentTranscript(t *testing.T) {
	b := seeded()
	m := started(t, b)

	m = press(t, m, "ctrl+e")

	var path string
	for _, toast := range m.Toasts() {
		if strings.HasPrefix(toast.Message, "已导出到 ") {
			path = strings.TrimPrefix(toast.Message, "已导出到 ")
		}
	}
	require.NotEmpty(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "烤鸭哪家好？")
	assert.Contains(t, string(data), "<strong>四季民福</strong>")
}

func TestView_RendersPanes(t *testing.T) {
	m := started(t, seeded())

	view := m.View()
	for _, want := range []string{"食探 FoodScout", "对话 (2)", "火锅推荐", "北京烤鸭", "烤鸭哪家好？", "食探AI"} {
		assert.Contains(t, view, want)
	}
}

func TestQuit(t *testing.T) {
	m := started(t, seeded())
	_, cmd := m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
