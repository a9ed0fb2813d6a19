// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/util"
)

var (
	// ErrNotConfigured indicates no API key is set.
	ErrNotConfigured = errors.New("bot API key not configured")

	// ErrEmptyReply indicates the completion carried no choices.
	ErrEmptyReply = errors.New("completion returned no choices")
)

// Generator is the part of llms.Model the bot needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Turn is one prior message handed to the model.
type Turn struct {
	Role    string
	Content string
}

// Settings are the per-request knobs. They can change while serving.
type Settings struct {
	Model           string
	Temperature     float64
	MaxTokens       int
	HistoryMessages int
	Timeout         time.Duration
}

// SettingsFromConfig extracts Settings from the bot config section.
func SettingsFromConfig(cfg config.BotConfig) Settings {
	return Settings{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
		HistoryMessages: cfg.HistoryMessages,
		Timeout:         time.Duration(cfg.TimeoutSecs) * time.Second,
	}
}

// Bot answers food questions. Safe for concurrent use.
type Bot struct {
	llm    Generator
	logger *zap.Logger

	mu       sync.RWMutex
	settings Settings
}

// New creates a bot on the OpenAI-compatible endpoint named by cfg.
func New(cfg config.BotConfig, logger *zap.Logger) (*Bot, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}
	llm, err := openai.New(
		openai.WithToken(key),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return NewWithGenerator(llm, SettingsFromConfig(cfg), logger), nil
}

// NewWithGenerator creates a bot around an existing model client.
func NewWithGenerator(llm Generator, settings Settings, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{llm: llm, settings: settings, logger: logger.Named("bot")}
}

// Settings returns the current settings.
func (b *Bot) Settings() Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settings
}

// Update replaces the settings used by subsequent requests.
func (b *Bot) Update(s Settings) {
	b.mu.Lock()
	b.settings = s
	b.mu.Unlock()
	b.logger.Info("BOT_SETTINGS_UPDATED",
		zap.String("model", s.Model),
		zap.Float64("temperature", s.Temperature),
		zap.Int("max_tokens", s.MaxTokens))
}

// Ping sends a tiny completion to verify the key and endpoint.
func (b *Bot) Ping(ctx context.Context) error {
	s := b.Settings()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := b.generate(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, "你好"),
	}, llms.WithModel(s.Model), llms.WithMaxTokens(50))
	return err
}

// Ask answers input in the context of history. Failures become canned
// replies; Ask always returns something to show.
func (b *Bot) Ask(ctx context.Context, input string, history []Turn) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("BOT_PANIC", zap.Any("panic", r))
			reply = ReplyInternal
		}
	}()

	out, err := b.Complete(ctx, input, history)
	if err != nil {
		b.logger.Warn("BOT_REQUEST_FAILED", zap.Error(err), zap.Int("input_len", len(input)))
		return CannedReply(err)
	}
	return out
}

// Complete is Ask without the error mapping.
func (b *Bot) Complete(ctx context.Context, input string, history []Turn) (string, error) {
	if strings.TrimSpace(input) == "" {
		return ReplyEmptyInput, nil
	}
	s := b.Settings()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	messages := BuildMessages(input, history, s.HistoryMessages)
	b.logger.Debug("BOT_REQUEST",
		zap.Int("messages", len(messages)),
		zap.Int("history_turns", len(history)/2),
		zap.Int("input_len", len(input)))

	start := time.Now()
	text, err := b.generate(ctx, messages,
		llms.WithModel(s.Model),
		llms.WithMaxTokens(s.MaxTokens),
		llms.WithTemperature(s.Temperature),
	)
	if err != nil {
		return "", err
	}
	b.logger.Debug("BOT_RESPONSE", zap.Int("reply_len", len(text)), zap.Duration("duration", time.Since(start)))
	return FormatReply(text, input), nil
}

func (b *Bot) generate(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	resp, err := b.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Content, nil
}

// BuildMessages assembles system prompt, the last maxHistory turns and the
// new input. maxHistory <= 0 keeps the whole history.
func BuildMessages(input string, history []Turn, maxHistory int) []llms.MessageContent {
	if maxHistory > 0 && len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, SystemPrompt))
	for _, t := range history {
		role := schema.ChatMessageTypeAI
		if t.Role == "user" {
			role = schema.ChatMessageTypeHuman
		}
		messages = append(messages, llms.TextParts(role, t.Content))
	}
	return append(messages, llms.TextParts(schema.ChatMessageTypeHuman, input))
}

// CannedReply maps a request error to the text shown in place of a reply.
func CannedReply(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyReply):
		return ReplyParse
	case isTimeout(err):
		return ReplyTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "proxyconnect" {
			return ReplyProxy
		}
		return ReplyConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReplyConnection
	}
	return ReplyRequestFail + util.PreviewRunes(err.Error(), 100)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
