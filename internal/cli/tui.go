// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/ui/chat"
	"github.com/jeranaias/foodscout-tui/internal/ui/styles"
)

// HandleTUI starts the full-screen chat client.
func HandleTUI(args Args) error {
	if err := RequiresTTY("start the TUI", "foodscout chat"); err != nil {
		return err
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

	m := chat.New(client, chat.Options{
		Theme:       styles.NewTheme(cfg.UI.Theme),
		Logger:      logger,
		ShowIcons:   cfg.UI.ShowIcons,
		Compact:     cfg.UI.Compact,
		ExportDir:   cfg.UI.ExportDir,
		OpenExports: true,
	})

	logger.Info("TUI_START", zap.String("base_url", client.BaseURL()))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info("TUI_EXIT")
	return nil
}
