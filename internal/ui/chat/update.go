// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/export"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/ui/components"
)

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open modal receives every key.
	if m.modal != nil {
		return m.handleModalKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextFocus):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.PrevFocus):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m.openNamePrompt(purposeNewConversation, "")
	case key.Matches(msg, m.keys.Delete):
		return m.confirmDelete()
	case key.Matches(msg, m.keys.Star):
		return m.toggleStar()
	case key.Matches(msg, m.keys.Clear):
		return m.confirmClear()
	case key.Matches(msg, m.keys.Export):
		return m.exportCurrent()
	case key.Matches(msg, m.keys.Refresh):
		return m, LoadConversationsCmd(m.backend, false)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	switch m.focus {
	case FocusList:
		return m.handleListKey(msg)
	case FocusTranscript:
		return m.handleTranscriptKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Send) {
		return m.send()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.setFocus(FocusInput)
	case key.Matches(msg, m.keys.Up):
		m.state.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.state.MoveCursor(1)
	case key.Matches(msg, m.keys.Open):
		if c, ok := m.state.CursorConversation(); ok {
			return m.beginSwitch(c.ID, SwitchSelect)
		}
	case key.Matches(msg, m.keys.Select):
		if c, ok := m.state.CursorConversation(); ok {
			m.state.ToggleSelect(c.ID)
		}
	case isHelpKey(msg.String()):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) handleTranscriptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.setFocus(FocusInput)
	case isHelpKey(msg.String()):
		m.showHelp = true
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, cmd := m.modal.Update(msg)
	if res == components.ModalPending {
		return m, cmd
	}

	purpose, value := m.purpose, m.modal.Value()
	pendingSend, target := m.pendingSend, m.pendingTarget
	m.modal = nil
	m.pendingSend = ""
	m.pendingTarget = ""
	if res == components.ModalCancelled {
		return m, nil
	}

	switch purpose {
	case purposeNewConversation, purposeNameForSend:
		if value == "" {
			value = defaultConversationName
		}
		return m, NewConversationCmd(m.backend, value, pendingSend)
	case purposeDelete:
		return m, DeleteConversationCmd(m.backend, target)
	case purposeClear:
		return m, ClearHistoryCmd(m.backend)
	}
	return m, nil
}

// =============================================================================
// MODALS
// =============================================================================

// alert opens a blocking message box.
func (m Model) alert(title, body string) (tea.Model, tea.Cmd) {
	m.modal = components.NewAlert(title, body)
	m.purpose = purposeAlert
	return m, nil
}

// openNamePrompt asks for a conversation name. pendingSend is sent after the
// conversation is created.
func (m Model) openNamePrompt(purpose modalPurpose, pendingSend string) (tea.Model, tea.Cmd) {
	m.modal = components.NewPrompt("新建对话", newConversationPrompt, defaultConversationName)
	m.purpose = purpose
	m.pendingSend = pendingSend
	return m, m.modal.Init()
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	if !m.state.CanMutate() {
		return m.alert("提示", selectFirstText)
	}
	c, _ := m.state.Selected()
	body := fmt.Sprintf("确定要删除对话 \"%s\" 吗？此操作不可撤销。", c.DisplayName())
	m.modal = components.NewConfirm("删除对话", body, true)
	m.purpose = purposeDelete
	m.pendingTarget = c.ID
	return m, nil
}

func (m Model) confirmClear() (tea.Model, tea.Cmd) {
	if !m.state.HasActive() {
		return m.alert("提示", selectFirstText)
	}
	m.modal = components.NewConfirm("清空历史", "确定要清空当前对话的历史记录吗？", true)
	m.purpose = purposeClear
	return m, nil
}

func (m Model) toggleStar() (tea.Model, tea.Cmd) {
	if !m.state.CanMutate() {
		return m.alert("提示", selectFirstText)
	}
	return m, StarConversationCmd(m.backend, m.state.SelectedID)
}

// failureText formats a failed action for an alert: the server's message
// for application errors, a network hint otherwise.
func failureText(action string, err error) string {
	if msg, ok := api.ServerMessage(err); ok {
		if msg == "" {
			msg = "未知错误"
		}
		return action + ": " + msg
	}
	return action + "，请检查网络"
}

// =============================================================================
// CONVERSATION LIST
// =============================================================================

func (m Model) handleConversationsLoaded(msg ConversationsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("CONVERSATIONS_LOAD_FAILED", zap.Error(msg.Err))
		if api.IsApplicationError(msg.Err) {
			m.toasts.Error("加载对话列表失败")
		} else {
			m.toasts.Error("网络错误，按 Ctrl+R 重新加载")
		}
		return m, nil
	}

	m.state.ApplyList(msg.Resp.Conversations, msg.Resp.CurrentConversationID)
	m.logger.Debug("CONVERSATIONS_LOADED",
		zap.Int("count", m.state.Len()),
		zap.String("current", m.state.CurrentID))

	if !msg.Reload || m.state.IsEmpty() {
		return m, nil
	}
	// A switch the user started wins over the refresh.
	if _, pending := m.state.SwitchPending(); pending {
		return m, nil
	}
	if m.state.CurrentID != "" {
		return m.beginSwitch(m.state.CurrentID, SwitchRestore)
	}
	return m.beginSwitch(m.state.Sorted()[0].ID, SwitchSelect)
}

func (m Model) beginSwitch(id string, origin SwitchOrigin) (tea.Model, tea.Cmd) {
	tok := m.state.BeginSwitch(id)
	return m, SwitchConversationCmd(m.backend, tok, id, origin)
}

func (m Model) handleConversationSwitched(msg ConversationSwitchedMsg) (tea.Model, tea.Cmd) {
	if !m.state.AcceptSwitch(msg.Token) {
		m.logger.Debug("SWITCH_STALE", zap.String("conversation_id", msg.ID))
		return m, nil
	}

	if msg.Err != nil {
		m.logger.Warn("SWITCH_FAILED", zap.String("conversation_id", msg.ID), zap.Error(msg.Err))
		if msg.Origin == SwitchRestore {
			m.setHistory(nil, WelcomeFallbackText)
			return m, nil
		}
		// Prior state stays; only the cursor moves back.
		if idx := m.state.IndexOf(m.state.CurrentID); idx >= 0 {
			m.state.Cursor = idx
		}
		return m.alert("错误", failureText("切换对话失败", msg.Err))
	}

	m.state.SetCurrent(msg.ID)
	if m.state.Has(msg.ID) {
		m.state.SelectedID = msg.ID
	}
	m.currentName = msg.Resp.ConversationName
	if m.waiting && m.waitingFor != msg.ID {
		m.typing.Stop()
	}

	welcome := WelcomeNewText
	if msg.Origin == SwitchRestore {
		welcome = WelcomeIntroText
	}
	m.setHistory(msg.Resp.History, welcome)

	if msg.Origin == SwitchSelect {
		return m, LoadConversationsCmd(m.backend, false)
	}
	return m, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

func (m Model) handleConversationCreated(msg ConversationCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("CONVERSATION_CREATE_FAILED", zap.Error(msg.Err))
		return m.alert("错误", failureText("创建新对话失败", msg.Err))
	}

	text := msg.Resp.Message
	if text == "" {
		text = "新对话创建成功"
	}
	m.toasts.Success(text)

	if msg.PendingSend == "" || msg.Resp.ConversationID == "" {
		return m, LoadConversationsCmd(m.backend, true)
	}

	// The new conversation is current on the server; send into it.
	m.state.CurrentID = msg.Resp.ConversationID
	m.currentName = ""
	m.setHistory(nil, "")
	next, cmd := m.startChat(msg.PendingSend)
	return next, tea.Batch(cmd, LoadConversationsCmd(m.backend, false))
}

func (m Model) handleConversationDeleted(msg ConversationDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("CONVERSATION_DELETE_FAILED", zap.String("conversation_id", msg.ID), zap.Error(msg.Err))
		return m.alert("错误", failureText("删除失败", msg.Err))
	}

	m.state.ClearSelection()
	text := msg.Resp.Message
	if text == "" {
		text = "对话已删除"
	}
	m.toasts.Success(text)
	return m, LoadConversationsCmd(m.backend, true)
}

func (m Model) handleConversationStarred(msg ConversationStarredMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("CONVERSATION_STAR_FAILED", zap.String("conversation_id", msg.ID), zap.Error(msg.Err))
		return m.alert("错误", failureText("标记失败", msg.Err))
	}

	m.toasts.Add(components.NewToast(msg.Resp.Message, components.ToastKindSuccess, components.ShortToastDuration))
	return m, LoadConversationsCmd(m.backend, false)
}

func (m Model) handleHistoryCleared(msg HistoryClearedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("HISTORY_CLEAR_FAILED", zap.Error(msg.Err))
		return m.alert("错误", failureText("清空失败", msg.Err))
	}
	m.toasts.Success("历史记录已清空")
	return m, LoadConversationsCmd(m.backend, true)
}

// =============================================================================
// SEND / RECEIVE
// =============================================================================

// send sends the input line. Without a current conversation the user is
// asked to name one first; cancelling that prompt sends nothing.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.waiting {
		m.toasts.Info("请等待当前回复完成", components.ShortToastDuration)
		return m, nil
	}
	if !m.state.HasActive() {
		return m.openNamePrompt(purposeNameForSend, text)
	}
	return m.startChat(text)
}

func (m Model) startChat(text string) (tea.Model, tea.Cmd) {
	m.input.Reset()
	m.appendEntry(entry{msg: model.NewUserMessage(text), at: m.now()})
	m.waiting = true
	m.waitingFor = m.state.CurrentID
	tick := m.typing.Start()
	m.refreshViewport(true)

	m.logger.Debug("CHAT_SEND",
		zap.String("conversation_id", m.waitingFor),
		zap.Int("length", utf8.RuneCountInString(text)))
	return m, tea.Batch(tick, ChatCmd(m.backend, m.waitingFor, text))
}

func (m Model) handleChatReply(msg ChatReplyMsg) (tea.Model, tea.Cmd) {
	m.waiting = false
	m.waitingFor = ""
	m.typing.Stop()

	if msg.ConversationID != m.state.CurrentID {
		// The user moved on; the server kept the exchange.
		m.refreshViewport(false)
		return m, LoadConversationsCmd(m.backend, false)
	}

	if msg.Err != nil {
		m.logger.Warn("CHAT_FAILED", zap.Error(msg.Err))
		text := NetworkFailureReply
		if reply, ok := api.ServerMessage(msg.Err); ok {
			text = BotFailurePrefix + reply
		}
		m.appendEntry(entry{msg: model.NewAIMessage(text), at: m.now(), failed: true})
		m.refreshViewport(true)
		return m, nil
	}

	m.logger.Debug("CHAT_REPLY", zap.Int("length", utf8.RuneCountInString(msg.Resp.Reply)))
	m.appendEntry(entry{msg: model.NewAIMessage(msg.Resp.Reply), at: m.now()})
	m.refreshViewport(true)
	return m, LoadConversationsCmd(m.backend, true)
}

// =============================================================================
// EXPORT
// =============================================================================

func (m Model) exportCurrent() (tea.Model, tea.Cmd) {
	c, ok := m.state.Current()
	if !ok {
		return m.alert("提示", selectFirstText)
	}
	t := export.NewTranscript(c, m.history())
	return m, ExportCmd(t, m.exportDir, m.openExports, m.logger)
}

func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("EXPORT_FAILED", zap.Error(msg.Err))
		m.toasts.Error("导出失败: " + msg.Err.Error())
		return m, nil
	}
	m.toasts.Success("已导出到 " + msg.Path)
	return m, nil
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// setHistory replaces the transcript. An empty history shows welcome
// instead, unless welcome is empty too.
func (m *Model) setHistory(history []model.Message, welcome string) {
	m.transcript = m.transcript[:0:0]
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		m.transcript = append(m.transcript, entry{msg: msg})
	}
	if len(m.transcript) == 0 && welcome != "" {
		m.transcript = append(m.transcript, entry{msg: model.NewAIMessage(welcome), at: m.now(), welcome: true})
	}
	m.refreshViewport(true)
}

func (m *Model) appendEntry(e entry) {
	m.transcript = append(m.transcript, e)
}

// history returns the real conversation messages, without the greeting and
// failure notices.
func (m Model) history() []model.Message {
	out := make([]model.Message, 0, len(m.transcript))
	for _, e := range m.transcript {
		if e.welcome || e.failed {
			continue
		}
		msg := e.msg
		if msg.Timestamp == "" && !e.at.IsZero() {
			msg.Timestamp = e.at.Format("15:04")
		}
		out = append(out, msg)
	}
	return out
}
