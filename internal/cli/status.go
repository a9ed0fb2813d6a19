// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/config"
)

// statusBackend is the part of the client the status command uses.
type statusBackend interface {
	Status(ctx context.Context) (*api.StatusResponse, error)
	ListConversations(ctx context.Context) (*api.ListResponse, error)
}

// StatusReport is what "foodscout status" shows.
type StatusReport struct {
	BaseURL       string `json:"base_url"`
	ConfigPath    string `json:"config_path,omitempty"`
	Reachable     bool   `json:"reachable"`
	Bot           string `json:"bot,omitempty"`
	Conversations int    `json:"conversations"`
	Starred       int    `json:"starred"`
	CurrentID     string `json:"current_conversation_id,omitempty"`
	CurrentName   string `json:"current_conversation_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

// HandleStatus handles "status". An unreachable backend is reported and
// returned as the command's error.
func HandleStatus(args Args) error {
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

	report, err := collectStatus(context.Background(), client)
	report.BaseURL = client.BaseURL()
	if path, perr := config.ConfigPathTOML(); perr == nil {
		report.ConfigPath = path
	}
	if args.ConfigPath != "" {
		report.ConfigPath = args.ConfigPath
	}

	if args.JSON {
		if jerr := outputJSON(os.Stdout, report); jerr != nil {
			return jerr
		}
	} else {
		printStatus(os.Stdout, report)
	}
	return err
}

// collectStatus queries the backend. The report is filled as far as the
// backend answered.
func collectStatus(ctx context.Context, b statusBackend) (StatusReport, error) {
	var report StatusReport

	st, err := b.Status(ctx)
	if err != nil {
		report.Error = err.Error()
		return report, err
	}
	report.Reachable = true
	report.Bot = st.Status
	report.CurrentID = st.CurrentConversationID
	report.Conversations = st.ConversationCount

	list, err := b.ListConversations(ctx)
	if err != nil {
		report.Error = err.Error()
		return report, err
	}
	report.Conversations = len(list.Conversations)
	for _, c := range list.Conversations {
		if c.Starred {
			report.Starred++
		}
		if c.ID == report.CurrentID {
			report.CurrentName = c.DisplayName()
		}
	}
	return report, nil
}

func printStatus(w io.Writer, r StatusReport) {
	fmt.Fprintln(w, TitleStyle.Render("食探 FoodScout 状态"))
	fmt.Fprintln(w, RenderSeparator(40))
	fmt.Fprintln(w, RenderField("Backend", r.BaseURL))
	if r.ConfigPath != "" {
		fmt.Fprintln(w, RenderField("Config", r.ConfigPath))
	}
	if !r.Reachable {
		fmt.Fprintln(w, RenderField("Connection", RenderStatus("offline")))
		if r.Error != "" {
			fmt.Fprintln(w, DimStyle.Render("  "+r.Error))
		}
		return
	}
	fmt.Fprintln(w, RenderField("Connection", RenderStatus("online")))
	fmt.Fprintln(w, RenderField("Bot", RenderStatus(r.Bot)))
	fmt.Fprintln(w, RenderField("Conversations", fmt.Sprintf("%d (%d ★)", r.Conversations, r.Starred)))
	if r.CurrentName != "" {
		fmt.Fprintln(w, RenderField("Current", r.CurrentName))
	}
	if r.Error != "" {
		fmt.Fprintln(w, DimStyle.Render("  "+r.Error))
	}
}
