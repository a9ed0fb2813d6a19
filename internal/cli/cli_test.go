// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/bot"
	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/export"
	"github.com/jeranaias/foodscout-tui/internal/format"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/server"
	"github.com/jeranaias/foodscout-tui/internal/sessionstore"
	"github.com/jeranaias/foodscout-tui/internal/ui/chat"
)

// =============================================================================
// ARG PARSING
// =============================================================================

func TestNewArgParser(t *testing.T) {
	tests := []struct {
		name       string
		raw        []string
		subcommand string
		flags      map[string]string
		bools      []string
		positional []string
	}{
		{
			name:       "subcommand with flag",
			raw:        []string{"2", "--format", "md"},
			subcommand: "2",
			flags:      map[string]string{"format": "md"},
			positional: []string{"2"},
		},
		{
			name:       "equals form",
			raw:        []string{"--output=/tmp/x", "3"},
			subcommand: "3",
			flags:      map[string]string{"output": "/tmp/x"},
			positional: []string{"3"},
		},
		{
			name:       "known bool does not consume next arg",
			raw:        []string{"--force", "init"},
			subcommand: "init",
			bools:      []string{"force"},
			positional: []string{"init"},
		},
		{
			name:       "double dash ends flags",
			raw:        []string{"get", "--", "--json"},
			subcommand: "get",
			positional: []string{"get", "--json"},
		},
		{
			name:  "explicit boolean value",
			raw:   []string{"--open=true", "--json=false"},
			bools: []string{"open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.raw)
			assert.Equal(t, tt.subcommand, p.Subcommand())
			for k, v := range tt.flags {
				assert.Equal(t, v, p.Flag(k), "flag %s", k)
			}
			for _, b := range tt.bools {
				assert.True(t, p.BoolFlag(b), "bool %s", b)
			}
			for i, want := range tt.positional {
				assert.Equal(t, want, p.Positional(i))
			}
			assert.Empty(t, p.Positional(len(tt.positional)))
		})
	}
}

func TestArgParser_Helpers(t *testing.T) {
	p := NewArgParser([]string{"a", "b", "--n", "7", "-v"})

	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
	assert.Equal(t, "7", p.FlagOrDefault("n", "0"))

	assert.True(t, p.BoolFlag("verbose", "v"))
	assert.False(t, p.BoolFlag("json"))
	assert.Equal(t, "b", p.Positional(1))
	assert.Equal(t, "", p.Positional(-1))
}

func TestParsePositiveInt(t *testing.T) {
	n, err := ParsePositiveInt("3", "index")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"", "0", "-2", "abc"} {
		_, err := ParsePositiveInt(bad, "index")
		assert.True(t, IsValidationError(err), "input %q", bad)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		cmd     Command
		check   func(t *testing.T, args Args)
		unknown string
	}{
		{name: "no args starts tui", argv: nil, cmd: CmdTUI},
		{name: "chat", argv: []string{"chat"}, cmd: CmdChat},
		{name: "repl alias", argv: []string{"repl"}, cmd: CmdChat},
		{name: "serve", argv: []string{"serve"}, cmd: CmdServe},
		{name: "version flag", argv: []string{"--version"}, cmd: CmdVersion},
		{
			name: "global flags before command",
			argv: []string{"--config", "x.toml", "--url=http://h:1", "status", "--json"},
			cmd:  CmdStatus,
			check: func(t *testing.T, args Args) {
				assert.Equal(t, "x.toml", args.ConfigPath)
				assert.Equal(t, "http://h:1", args.BaseURL)
				assert.True(t, args.JSON)
			},
		},
		{
			name: "export positional and flags",
			argv: []string{"-v", "export", "2", "--format", "md", "--open"},
			cmd:  CmdExport,
			check: func(t *testing.T, args Args) {
				assert.True(t, args.Verbose)
				assert.Equal(t, "2", args.Parser.Positional(0))
				assert.Equal(t, "md", args.Parser.Flag("format"))
				assert.True(t, args.Parser.BoolFlag("open"))
			},
		},
		{
			name: "serve addr",
			argv: []string{"--addr", ":9000", "serve"},
			cmd:  CmdServe,
			check: func(t *testing.T, args Args) {
				assert.Equal(t, ":9000", args.Addr)
			},
		},
		{name: "help after command", argv: []string{"export", "--help"}, cmd: CmdHelp},
		{name: "unknown command", argv: []string{"bogus"}, cmd: CmdHelp, unknown: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.unknown, args.Unknown)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "export", CmdExport.String())
	assert.Equal(t, "tui", CmdTUI.String())
	assert.Equal(t, "help", Command(99).String())
}

func TestHandleHelp_UnknownCommandFails(t *testing.T) {
	_, args := ParseArgs([]string{"bogus"})
	err := HandleHelp(args)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"validation", NewValidationError("url", "x", "bad"), ExitUsageError},
		{"tty", &TTYRequiredError{Operation: "start the TUI"}, ExitUsageError},
		{"not found wrapped", fmt.Errorf("export: %w", NewNotFoundError("conversation", "9")), ExitNotFoundError},
		{"config", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"transport", fmt.Errorf("%w: dial", api.ErrTransport), ExitNetworkError},
		{"transport inside command error", NewCommandError("chat", "connect", "down", fmt.Errorf("%w: dial", api.ErrTransport)), ExitNetworkError},
		{"application error", &api.APIError{Endpoint: "/chat", Message: "x"}, ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := ErrUnsupportedFormat("pdf", []string{"html", "md"})
	assert.Contains(t, err.Error(), "pdf")
	assert.Contains(t, err.Error(), "--format html|md")

	err = ErrMissingArgument("conversation", exportUsage)
	assert.Contains(t, err.Error(), "argument is required")

	cmdErr := NewCommandError("export", "write", "disk full", errors.New("ENOSPC"))
	assert.Equal(t, "export write failed: disk full: ENOSPC", cmdErr.Error())
}

func TestFailureText(t *testing.T) {
	assert.Equal(t, "删除失败: 对话不存在",
		failureText("删除失败", &api.APIError{Endpoint: "/conversations/delete", Message: "对话不存在"}))
	assert.Equal(t, "删除失败，请检查网络",
		failureText("删除失败", fmt.Errorf("%w: refused", api.ErrTransport)))
	assert.Equal(t, "删除失败: boom", failureText("删除失败", errors.New("boom")))
}

// =============================================================================
// REPL AGAINST A REAL SERVER
// =============================================================================

type echoAsker struct{}

func (echoAsker) Ask(_ context.Context, input string, _ []bot.Turn) string {
	return "推荐：" + input
}

type replEnv struct {
	ts     *httptest.Server
	client *api.Client
	repl   *REPL
	out    *bytes.Buffer
}

func newREPLEnv(t *testing.T) *replEnv {
	t.Helper()

	srv, err := server.New(config.ServerConfig{
		SecretKey:       "test-secret",
		SessionTTLHours: 1,
		MaxBodyBytes:    1 << 16,
	}, sessionstore.NewMemoryStore(), zap.NewNop())
	require.NoError(t, err)
	srv.WithBot(echoAsker{})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL)
	out := &bytes.Buffer{}
	return &replEnv{
		ts:     ts,
		client: client,
		repl:   NewREPL(client, out, format.NewRenderer(format.StylePlain), 200, nil),
		out:    out,
	}
}

// run feeds lines to the REPL and returns what it printed.
func (e *replEnv) run(t *testing.T, lines ...string) string {
	t.Helper()
	e.out.Reset()
	for _, line := range lines {
		e.repl.Handle(context.Background(), line)
	}
	return e.out.String()
}

func TestREPL_StartShowsCurrentConversation(t *testing.T) {
	env := newREPLEnv(t)

	require.NoError(t, env.repl.Start(context.Background()))
	out := env.out.String()

	assert.Contains(t, out, "食探 FoodScout")
	assert.NotEmpty(t, env.repl.CurrentID())
	// The seeded conversation has no history yet.
	assert.Contains(t, out, "食探AI")
}

func TestREPL_StartFailsWhenBackendDown(t *testing.T) {
	env := newREPLEnv(t)
	env.ts.Close()

	err := env.repl.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
}

func TestREPL_Chat(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))

	out := env.run(t, "推荐火锅")
	assert.Contains(t, out, "推荐：推荐火锅")

	out = env.run(t, "/list")
	assert.Contains(t, out, "对话 (1)")
	assert.Contains(t, out, "1条消息")
}

func TestREPL_ChatNetworkFailure(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))
	env.ts.Close()

	out := env.run(t, "你好")
	assert.Contains(t, out, chat.NetworkFailureReply)
}

func TestREPL_ConversationCommands(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))
	first := env.repl.CurrentID()

	out := env.run(t, "/new 川菜")
	assert.Contains(t, out, "新对话创建成功")
	assert.NotEqual(t, first, env.repl.CurrentID())

	out = env.run(t, "/list")
	assert.Contains(t, out, "对话 (2)")
	assert.Contains(t, out, "川菜")

	// Find 川菜's position in the printed list.
	idx := 0
	for i, c := range env.repl.listed {
		if c.Name == "川菜" {
			idx = i + 1
		}
	}
	require.NotZero(t, idx)

	out = env.run(t, fmt.Sprintf("/star %d", idx))
	assert.Contains(t, out, "已标记")

	// Starred conversations list first.
	out = env.run(t, "/list")
	require.NotEmpty(t, env.repl.listed)
	assert.Equal(t, "川菜", env.repl.listed[0].Name)
	assert.Contains(t, out, "★")

	out = env.run(t, "/switch 2")
	assert.Contains(t, out, "已切换到")
	assert.Equal(t, first, env.repl.CurrentID())

	out = env.run(t, "/delete 1")
	assert.Contains(t, out, "对话已删除")

	out = env.run(t, "/list")
	assert.Contains(t, out, "对话 (1)")
	assert.NotContains(t, out, "川菜")
}

func TestREPL_DefaultConversationName(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))

	env.run(t, "/new")
	env.run(t, "/list")
	var names []string
	for _, c := range env.repl.listed {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"新对话", "新对话"}, names)
}

func TestREPL_TargetErrors(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))

	assert.Contains(t, env.run(t, "/switch"), "请指定对话编号")
	assert.Contains(t, env.run(t, "/switch 9"), "没有第 9 个对话")
	assert.Contains(t, env.run(t, "/star x"), "对话编号必须是正整数")
	assert.Contains(t, env.run(t, "/delete 0"), "对话编号必须是正整数")
}

func TestREPL_TargetListFailure(t *testing.T) {
	env := newREPLEnv(t)
	env.ts.Close()

	assert.Contains(t, env.run(t, "/switch 1"), "加载对话列表失败，请检查网络")
}

func TestREPL_Clear(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))

	// A fresh session already has a current conversation, so clearing it
	// succeeds even before anything was said.
	assert.Contains(t, env.run(t, "/clear"), "历史记录已清空")

	env.run(t, "推荐烤鸭")
	assert.Contains(t, env.run(t, "/clear"), "历史记录已清空")
}

func TestREPL_ClearRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == api.PathClear {
			fmt.Fprint(w, `{"success":false,"message":"没有可清空的对话"}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	out := &bytes.Buffer{}
	repl := NewREPL(api.NewClient(ts.URL), out, nil, 80, nil)
	repl.Handle(context.Background(), "/clear")

	assert.Contains(t, out.String(), "清空失败: 没有可清空的对话")
	assert.NotContains(t, out.String(), "历史记录已清空")
}

func TestREPL_Reset(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))
	first := env.repl.CurrentID()
	env.run(t, "/new 川菜")
	assert.Contains(t, env.run(t, "/list"), "对话 (2)")

	out := env.run(t, "/reset")
	assert.Contains(t, out, "已重置会话")
	assert.NotEmpty(t, env.repl.CurrentID())
	assert.NotEqual(t, first, env.repl.CurrentID())

	out = env.run(t, "/list")
	assert.Contains(t, out, "对话 (1)")
	assert.NotContains(t, out, "川菜")
}

func TestREPL_MiscCommands(t *testing.T) {
	env := newREPLEnv(t)
	require.NoError(t, env.repl.Start(context.Background()))

	assert.Contains(t, env.run(t, "/bogus"), "未知命令: /bogus")
	assert.Contains(t, env.run(t, "/help"), "/switch n")
	assert.Empty(t, env.run(t, "   "))

	for _, word := range []string{"退出", "exit", "QUIT", "q"} {
		env.out.Reset()
		assert.True(t, env.repl.Handle(context.Background(), word), word)
		assert.Contains(t, env.out.String(), "再见！")
	}
	assert.False(t, env.repl.Handle(context.Background(), "quit please"))
}

// =============================================================================
// STATUS
// =============================================================================

func TestCollectStatus(t *testing.T) {
	env := newREPLEnv(t)
	ctx := context.Background()

	_, err := env.client.NewConversation(ctx, "收藏")
	require.NoError(t, err)
	list, err := env.client.ListConversations(ctx)
	require.NoError(t, err)
	_, err = env.client.StarConversation(ctx, list.CurrentConversationID)
	require.NoError(t, err)

	report, err := collectStatus(ctx, env.client)
	require.NoError(t, err)
	assert.True(t, report.Reachable)
	assert.Equal(t, "active", report.Bot)
	assert.Equal(t, 2, report.Conversations)
	assert.Equal(t, 1, report.Starred)
	assert.Equal(t, "收藏", report.CurrentName)

	var buf bytes.Buffer
	printStatus(&buf, report)
	assert.Contains(t, buf.String(), strings.Repeat("─", 40))
	assert.Contains(t, buf.String(), "2 (1 ★)")
	assert.Contains(t, buf.String(), "收藏")
}

func TestCollectStatus_Offline(t *testing.T) {
	env := newREPLEnv(t)
	env.ts.Close()

	report, err := collectStatus(context.Background(), env.client)
	require.Error(t, err)
	assert.False(t, report.Reachable)
	assert.NotEmpty(t, report.Error)

	var buf bytes.Buffer
	printStatus(&buf, report)
	assert.Contains(t, buf.String(), "offline")
}

// =============================================================================
// EXPORT
// =============================================================================

func TestFindConversation(t *testing.T) {
	sorted := []model.Conversation{{ID: "x1", Name: "a"}, {ID: "x2", Name: "b"}}

	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{"x2", "x2", true},
		{"1", "x1", true},
		{"2", "x2", true},
		{"3", "", false},
		{"0", "", false},
		{"nope", "", false},
	}
	for _, tt := range tests {
		c, ok := findConversation(sorted, tt.target)
		assert.Equal(t, tt.ok, ok, tt.target)
		assert.Equal(t, tt.want, c.ID, tt.target)
	}
}

func TestExportConversation_RestoresCurrent(t *testing.T) {
	env := newREPLEnv(t)
	ctx := context.Background()

	list, err := env.client.ListConversations(ctx)
	require.NoError(t, err)
	seeded := list.CurrentConversationID
	_, err = env.client.Chat(ctx, "推荐火锅")
	require.NoError(t, err)

	created, err := env.client.NewConversation(ctx, "川菜")
	require.NoError(t, err)

	opts := export.DefaultOptions()
	opts.OutputDir = t.TempDir()
	f, err := export.ParseFormat("json")
	require.NoError(t, err)

	path, err := exportConversation(ctx, env.client, seeded, f, opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, opts.OutputDir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "推荐：推荐火锅")

	list, err = env.client.ListConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ConversationID, list.CurrentConversationID)
}

func TestExportConversation_NotFound(t *testing.T) {
	env := newREPLEnv(t)
	f, err := export.ParseFormat("md")
	require.NoError(t, err)

	_, err = exportConversation(context.Background(), env.client, "7", f, export.DefaultOptions(), zap.NewNop())
	assert.True(t, IsNotFoundError(err))
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FOODSCOUT_HOME", home)
	t.Cleanup(config.ResetGlobalForTesting)

	args := Args{Parser: NewArgParser([]string{"init"})}
	var out bytes.Buffer
	require.NoError(t, runConfig(&out, args))

	path := filepath.Join(home, "config.toml")
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = runConfig(&out, args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, runConfig(&out, Args{Parser: NewArgParser([]string{"init", "--force"})}))
}

func TestConfigInit_JSONPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FOODSCOUT_HOME", home)
	t.Cleanup(config.ResetGlobalForTesting)

	path := filepath.Join(home, "custom.json")
	var out bytes.Buffer
	require.NoError(t, runConfig(&out, Args{ConfigPath: path, Parser: NewArgParser([]string{"init"})}))
	assert.Contains(t, out.String(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "config written as JSON")
	assert.Contains(t, string(data), `"session_ttl_hours"`)
}

func TestConfigPathAndGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FOODSCOUT_HOME", home)
	t.Cleanup(config.ResetGlobalForTesting)

	var out bytes.Buffer
	require.NoError(t, runConfig(&out, Args{Parser: NewArgParser([]string{"path"})}))
	assert.Equal(t, filepath.Join(home, "config.toml"), strings.TrimSpace(out.String()))

	out.Reset()
	require.NoError(t, runConfig(&out, Args{Parser: NewArgParser([]string{"get", "client.base_url"})}))
	assert.Equal(t, config.Default().Client.BaseURL, strings.TrimSpace(out.String()))

	err := runConfig(&out, Args{Parser: NewArgParser([]string{"get"})})
	assert.True(t, IsValidationError(err))

	err = runConfig(&out, Args{Parser: NewArgParser([]string{"bogus"})})
	assert.True(t, IsValidationError(err))
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	t.Setenv("FOODSCOUT_HOME", t.TempDir())
	t.Setenv("FOODSCOUT_SECRET_KEY", "super-secret-value")
	t.Cleanup(config.ResetGlobalForTesting)

	var out bytes.Buffer
	require.NoError(t, runConfig(&out, Args{Parser: NewArgParser(nil)}))
	assert.NotContains(t, out.String(), "super-secret-value")
	assert.Contains(t, out.String(), "[REDACTED]")
}
