// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirm_DangerFocusesCancel(t *testing.T) {
	m := NewConfirm("删除对话", "确定吗？", true)
	if res, _ := m.Update(key("enter")); res != ModalCancelled {
		t.Errorf("enter on danger confirm: got %v, want cancelled", res)
	}
}

func TestConfirm_ToggleThenAccept(t *testing.T) {
	m := NewConfirm("删除对话", "确定吗？", true)
	if res, _ := m.Update(key("left")); res != ModalPending {
		t.Fatalf("toggle should keep dialog open, got %v", res)
	}
	if res, _ := m.Update(key("enter")); res != ModalAccepted {
		t.Errorf("enter after toggle: got %v, want accepted", res)
	}
}

func TestConfirm_YesNoKeys(t *testing.T) {
	tests := []struct {
		key  string
		want ModalResult
	}{
		{"y", ModalAccepted},
		{"Y", ModalAccepted},
		{"n", ModalCancelled},
		{"esc", ModalCancelled},
		{"x", ModalPending},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := NewConfirm("t", "b", false)
			if res, _ := m.Update(key(tt.key)); res != tt.want {
				t.Errorf("got %v, want %v", res, tt.want)
			}
		})
	}
}

func TestConfirm_NonDangerEnterAccepts(t *testing.T) {
	m := NewConfirm("清空", "确定吗？", false)
	if res, _ := m.Update(key("enter")); res != ModalAccepted {
		t.Errorf("got %v, want accepted", res)
	}
}

func TestAlert_AnyCloseAccepts(t *testing.T) {
	for _, k := range []string{"enter", "esc"} {
		m := NewAlert("错误", "切换对话失败: boom")
		if res, _ := m.Update(key(k)); res != ModalAccepted {
			t.Errorf("%s: got %v, want accepted", k, res)
		}
	}
}

func TestPrompt_TypingAndValue(t *testing.T) {
	m := NewPrompt("新建对话", "请输入对话名称", "新对话")
	for i := 0; i < len([]rune("新对话")); i++ {
		m.Update(key("backspace"))
	}
	m.Update(key("  火锅推荐 "))
	if got := m.Value(); got != "火锅推荐" {
		t.Errorf("value: got %q", got)
	}
	if res, _ := m.Update(key("enter")); res != ModalAccepted {
		t.Errorf("enter: got %v, want accepted", res)
	}
}

func TestPrompt_EscCancels(t *testing.T) {
	m := NewPrompt("新建对话", "", "x")
	if res, _ := m.Update(key("esc")); res != ModalCancelled {
		t.Errorf("got %v, want cancelled", res)
	}
}

func TestModal_View(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	out := NewConfirm("删除对话", "此操作不可撤销。", true).View(theme, 80)
	for _, want := range []string{"删除对话", "此操作不可撤销。", "确定", "取消"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
