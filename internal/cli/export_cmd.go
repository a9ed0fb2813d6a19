// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - "foodscout export" writes one conversation to a file.
//
// Examples:
//
//	foodscout export 2                       Second conversation in list order, as HTML
//	foodscout export 3f2a... --format md     By id, as Markdown
//	foodscout export 1 --output ~/Desktop --open
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/export"
	"github.com/jeranaias/foodscout-tui/internal/model"
	"github.com/jeranaias/foodscout-tui/internal/ui/chat"
)

const exportUsage = "foodscout export <id|n> [--format html|md|json] [--output DIR] [--open]"

var exportFormats = []string{"html", "md", "json"}

// HandleExport handles "export".
func HandleExport(args Args) error {
	target := args.Parser.Positional(0)
	if target == "" {
		return ErrMissingArgument("conversation", exportUsage)
	}
	formatName := args.Parser.FlagOrDefault("format", "html")
	f, err := export.ParseFormat(formatName)
	if err != nil {
		return ErrUnsupportedFormat(formatName, exportFormats)
	}

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

	opts := export.DefaultOptions()
	opts.OutputDir = args.Parser.FlagOrDefault("output", ".")
	opts.OpenAfterExport = args.Parser.BoolFlag("open")
	opts.Logger = logger

	path, err := exportConversation(context.Background(), client, target, f, opts, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, SuccessStyle.Render("✓ ")+"已导出到 "+path)
	return nil
}

// exportConversation fetches the history of target and writes it out.
// target is a conversation id or a 1-based position in list order. Reading
// the history makes target current on the server, so the previously
// current conversation is switched back afterwards.
func exportConversation(ctx context.Context, b chat.Backend, target string, f export.Format, opts *export.Options, logger *zap.Logger) (string, error) {
	list, err := b.ListConversations(ctx)
	if err != nil {
		return "", NewCommandError("export", "list", "could not load conversations", err)
	}
	conv, ok := findConversation(model.SortConversations(list.Conversations), target)
	if !ok {
		return "", NewNotFoundError("conversation", target)
	}

	resp, err := b.SwitchConversation(ctx, conv.ID)
	if err != nil {
		return "", NewCommandError("export", "load", "could not load history", err)
	}
	if prev := list.CurrentConversationID; prev != "" && prev != conv.ID {
		if _, err := b.SwitchConversation(ctx, prev); err != nil {
			logger.Warn("EXPORT_RESTORE_FAILED", zap.String("conversation_id", prev), zap.Error(err))
		}
	}

	history := make([]model.Message, 0, len(resp.History))
	for _, msg := range resp.History {
		if msg.Content != "" {
			history = append(history, msg)
		}
	}
	if resp.ConversationName != "" {
		conv.Name = resp.ConversationName
	}

	path, err := export.ExportTranscript(export.NewTranscript(conv, history), f, opts)
	if err != nil {
		return "", NewCommandError("export", "write", "could not write transcript", err)
	}
	return path, nil
}

// findConversation matches an id first, then a 1-based index.
func findConversation(sorted []model.Conversation, target string) (model.Conversation, bool) {
	for _, c := range sorted {
		if c.ID == target {
			return c, true
		}
	}
	if n, err := strconv.Atoi(target); err == nil && n >= 1 && n <= len(sorted) {
		return sorted[n-1], true
	}
	return model.Conversation{}, false
}
