// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - the "foodscout chat" line-mode client.
//
// Command: chat
// Short:   Chat with the bot in the terminal, one line at a time
//
// Interactive commands:
//
//	/new [name]   Start a new conversation
//	/list         List conversations (numbers are used by the commands below)
//	/switch n     Switch to conversation n
//	/star n       Star or unstar conversation n
//	/delete n     Delete conversation n
//	/clear        Clear the current conversation
//	/reset        Forget the session and start over with a new one
//	/help         Show commands
//	退出 | exit | quit | q
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/format"
	"github.com/jeranaias/foodscout-tui/internal/logging"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/ui/chat"
	"github.com/jeranaias/foodscout-tui/internal/ui/components"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

// ChatPrompt is the REPL input prompt.
const ChatPrompt = "foodscout> "

// exitWords leave the REPL.
var exitWords = map[string]bool{"退出": true, "exit": true, "quit": true, "q": true}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates the line editor and loads ~/.foodscout/chat_history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile, err := config.DataPath("chat_history")
	if err != nil {
		historyFile = ""
	}
	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory reads saved input history.
func (c *ChatCLI) LoadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line. Non-empty lines are added to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves the history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL runs chat commands against a backend and prints the results.
type REPL struct {
	backend  chat.Backend
	out      io.Writer
	renderer *format.Renderer
	width    int
	logger   *zap.Logger
	now      func() time.Time

	// listed is the order of the last printed list; /switch n and friends
	// index into it.
	listed    []model.Conversation
	currentID string
}

// NewREPL creates a REPL writing to out. renderer may be nil for plain text.
func NewREPL(b chat.Backend, out io.Writer, renderer *format.Renderer, width int, logger *zap.Logger) *REPL {
	if renderer == nil {
		renderer = format.NewRenderer(format.StylePlain)
	}
	return &REPL{
		backend:  b,
		out:      out,
		renderer: renderer,
		width:    width,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// CurrentID returns the conversation the REPL believes is current.
func (r *REPL) CurrentID() string {
	return r.currentID
}

// Start prints the banner and the current conversation. It fails only when
// the backend cannot be reached.
func (r *REPL) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, TitleStyle.Render("食探 FoodScout"))
	fmt.Fprintln(r.out, DimStyle.Render("输入问题开始聊天，/help 查看命令，退出 离开。"))

	list, err := r.backend.ListConversations(ctx)
	if err != nil {
		return NewCommandError("chat", "connect", "无法连接到食探服务", err)
	}
	r.remember(list)

	if r.currentID == "" {
		r.printBot(chat.WelcomeFallbackText)
		return nil
	}
	resp, err := r.backend.SwitchConversation(ctx, r.currentID)
	if err != nil {
		r.printBot(chat.WelcomeFallbackText)
		return nil
	}
	r.printConversation(resp, chat.WelcomeIntroText)
	return nil
}

// Handle runs one input line and reports whether the REPL should exit.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case exitWords[strings.ToLower(line)]:
		fmt.Fprintln(r.out, "再见！")
		return true
	case strings.HasPrefix(line, "/"):
		r.command(ctx, line)
		return false
	}
	r.send(ctx, line)
	return false
}

func (r *REPL) command(ctx context.Context, line string) {
	fields := strings.Fields(line)
	name, rest := strings.ToLower(fields[0]), fields[1:]
	arg := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch name {
	case "/help", "/h", "/?":
		r.printHelp()
	case "/new", "/n":
		r.newConversation(ctx, arg)
	case "/list", "/ls", "/l":
		r.list(ctx)
	case "/switch", "/s":
		r.withTarget(ctx, rest, r.switchTo)
	case "/star":
		r.withTarget(ctx, rest, r.star)
	case "/delete", "/del", "/rm":
		r.withTarget(ctx, rest, r.remove)
	case "/clear", "/c":
		r.clear(ctx)
	case "/reset":
		r.reset(ctx)
	default:
		r.printError(fmt.Sprintf("未知命令: %s，输入 /help 查看可用命令", fields[0]))
	}
}

// =============================================================================
// CHAT
// =============================================================================

func (r *REPL) send(ctx context.Context, text string) {
	fmt.Fprintln(r.out, DimStyle.Render(components.TypingText+"..."))
	r.logger.Debug("CHAT_SEND", zap.Int("length", len([]rune(text))))

	resp, err := r.backend.Chat(ctx, text)
	if err != nil {
		r.logger.Warn("CHAT_FAILED", zap.Error(err))
		if msg, ok := api.ServerMessage(err); ok {
			r.printBot(chat.BotFailurePrefix + msg)
			return
		}
		r.printBot(chat.NetworkFailureReply)
		return
	}
	if resp.ConversationID != "" {
		r.currentID = resp.ConversationID
	}
	r.printBot(resp.Reply)
}

// =============================================================================
// CONVERSATION COMMANDS
// =============================================================================

func (r *REPL) newConversation(ctx context.Context, name string) {
	if name == "" {
		name = "新对话"
	}
	resp, err := r.backend.NewConversation(ctx, name)
	if err != nil {
		r.printError(failureText("创建新对话失败", err))
		return
	}
	if resp.ConversationID != "" {
		r.currentID = resp.ConversationID
	}
	r.printOK(resp.Message)
	r.printBot(chat.WelcomeNewText)
}

func (r *REPL) list(ctx context.Context) {
	resp, err := r.backend.ListConversations(ctx)
	if err != nil {
		r.printError(failureText("加载对话列表失败", err))
		return
	}
	r.remember(resp)

	if len(r.listed) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("暂无对话记录"))
		return
	}
	fmt.Fprintln(r.out, SectionStyle.Render(fmt.Sprintf("对话 (%d)", len(r.listed))))
	for i, c := range r.listed {
		fmt.Fprintln(r.out, r.formatRow(i+1, c))
	}
}

func (r *REPL) formatRow(n int, c model.Conversation) string {
	marker := "  "
	if c.ID == r.currentID {
		marker = PromptStyle.Render("▸ ")
	}
	star := ""
	if c.Starred {
		star = " " + StarStyle.Render("★")
	}
	meta := fmt.Sprintf("%s · %d条消息", model.TimeAgo(c.LastUpdated.Time, r.now()), c.MessageCount)
	if p := c.Preview(); p != "" {
		meta += " · " + util.TruncateWidth(p, 24)
	}
	return fmt.Sprintf("%s%2d. %s%s  %s", marker, n, c.DisplayName(), star, DimStyle.Render(meta))
}

// withTarget resolves the 1-based index in args and runs fn on it.
func (r *REPL) withTarget(ctx context.Context, args []string, fn func(context.Context, model.Conversation)) {
	if len(args) == 0 {
		r.printError("请指定对话编号，先用 /list 查看")
		return
	}
	c, err := r.resolve(ctx, args[0])
	switch {
	case err == nil:
	case IsValidationError(err):
		r.printError("对话编号必须是正整数")
		return
	case IsNotFoundError(err):
		r.printError(fmt.Sprintf("没有第 %s 个对话，先用 /list 查看", args[0]))
		return
	default:
		r.printError(failureText("加载对话列表失败", err))
		return
	}
	fn(ctx, c)
}

func (r *REPL) resolve(ctx context.Context, arg string) (model.Conversation, error) {
	n, err := ParsePositiveInt(arg, "conversation number")
	if err != nil {
		return model.Conversation{}, err
	}
	if len(r.listed) == 0 {
		resp, err := r.backend.ListConversations(ctx)
		if err != nil {
			return model.Conversation{}, err
		}
		r.remember(resp)
	}
	if n > len(r.listed) {
		return model.Conversation{}, NewNotFoundError("conversation", arg)
	}
	return r.listed[n-1], nil
}

func (r *REPL) switchTo(ctx context.Context, c model.Conversation) {
	resp, err := r.backend.SwitchConversation(ctx, c.ID)
	if err != nil {
		r.printError(failureText("切换对话失败", err))
		return
	}
	r.currentID = resp.ConversationID
	if r.currentID == "" {
		r.currentID = c.ID
	}
	r.printOK("已切换到: " + c.DisplayName())
	r.printConversation(resp, chat.WelcomeNewText)
}

func (r *REPL) star(ctx context.Context, c model.Conversation) {
	resp, err := r.backend.StarConversation(ctx, c.ID)
	if err != nil {
		r.printError(failureText("标记失败", err))
		return
	}
	r.printOK(resp.Message)
	r.listed = nil
}

func (r *REPL) remove(ctx context.Context, c model.Conversation) {
	resp, err := r.backend.DeleteConversation(ctx, c.ID)
	if err != nil {
		r.printError(failureText("删除失败", err))
		return
	}
	if resp.CurrentConversationID != "" || c.ID == r.currentID {
		r.currentID = resp.CurrentConversationID
	}
	r.printOK(resp.Message)
	r.listed = nil
}

func (r *REPL) clear(ctx context.Context) {
	if err := r.backend.ClearHistory(ctx); err != nil {
		r.printError(failureText("清空失败", err))
		return
	}
	r.printOK("历史记录已清空")
}

// sessionForgetter is a backend that can drop its session cookie.
type sessionForgetter interface {
	ForgetSession() error
}

// reset drops the session so the server starts a fresh one on the next
// request. The old conversations stay with the old session.
func (r *REPL) reset(ctx context.Context) {
	f, ok := r.backend.(sessionForgetter)
	if !ok {
		r.printError("当前后端不支持重置会话")
		return
	}
	if err := f.ForgetSession(); err != nil {
		r.printError("重置会话失败: " + err.Error())
		return
	}
	r.currentID = ""
	r.listed = nil
	r.printOK("已重置会话")

	resp, err := r.backend.ListConversations(ctx)
	if err != nil {
		r.printError(failureText("加载对话列表失败", err))
		return
	}
	r.remember(resp)
}

// remember records the list order and the server's current conversation.
func (r *REPL) remember(resp *api.ListResponse) {
	r.listed = model.SortConversations(resp.Conversations)
	if resp.CurrentConversationID != "" {
		r.currentID = resp.CurrentConversationID
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printConversation(resp *api.SwitchResponse, welcome string) {
	shown := 0
	for _, msg := range resp.History {
		if msg.Content == "" {
			continue
		}
		if msg.IsUser() {
			fmt.Fprintln(r.out, PromptStyle.Render(model.RoleUser.DisplayName()+":")+" "+msg.Content)
		} else {
			r.printBot(msg.Content)
		}
		shown++
	}
	if shown == 0 {
		r.printBot(welcome)
	}
}

func (r *REPL) printBot(text string) {
	fmt.Fprintln(r.out, BotLabelStyle.Render(model.RoleAI.DisplayName()+":"))
	fmt.Fprintln(r.out, r.renderer.Render(text, r.width))
	fmt.Fprintln(r.out)
}

func (r *REPL) printOK(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("✓ ")+msg)
}

func (r *REPL) printError(msg string) {
	fmt.Fprintln(r.out, ErrorStyle.Render("✗ ")+msg)
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, SectionStyle.Render("可用命令"))
	for _, row := range [][2]string{
		{"/new [名称]", "新建对话"},
		{"/list", "查看对话列表"},
		{"/switch n", "切换到第 n 个对话"},
		{"/star n", "标记或取消标记第 n 个对话"},
		{"/delete n", "删除第 n 个对话"},
		{"/clear", "清空当前对话"},
		{"/reset", "重置会话"},
		{"退出", "离开"},
	} {
		fmt.Fprintln(r.out, "  "+RenderField(row[0], row[1]))
	}
}

// failureText formats a failed command: the server's message for
// application errors, a network hint otherwise.
func failureText(action string, err error) string {
	if msg, ok := api.ServerMessage(err); ok && msg != "" {
		return action + ": " + msg
	}
	if api.IsTransportError(err) {
		return action + "，请检查网络"
	}
	return action + ": " + err.Error()
}

// =============================================================================
// COMMAND
// =============================================================================

// HandleChat runs the line-mode REPL until an exit word or Ctrl+D.
func HandleChat(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger := clientLogger(cfg)
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	style := cfg.UI.Theme
	if !ColorsEnabled() {
		style = format.StylePlain
	}
	repl := NewREPL(client, os.Stdout, format.NewRenderer(style), GetTerminalWidth()-2, logger)

	ctx := context.Background()
	if err := repl.Start(ctx); err != nil {
		return err
	}

	input := NewChatCLI()
	defer input.Close()

	for {
		line, err := input.ReadInput(ChatPrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println(DimStyle.Render("输入 退出 或按 Ctrl+D 离开"))
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if repl.Handle(ctx, line) {
			return nil
		}
	}
}
