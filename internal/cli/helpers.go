// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/api"
	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/logging"
	"github.com/jeranaias/foodscout-tui/internal/storage"
)

// =============================================================================
// BOOTSTRAP
// =============================================================================

// loadConfig loads the config named by --config, or the default one, and
// applies the command-line overrides. The result becomes the global config.
func loadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		config.LoadDotEnv()
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.BaseURL != "" {
		cfg.Client.BaseURL = args.BaseURL
	}
	if args.Addr != "" {
		cfg.Server.Addr = args.Addr
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// clientLogger opens the client log file. Failure to open it is not fatal;
// the client runs without logs.
func clientLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.NewClient(cfg.Log)
	if err != nil {
		return logging.Nop()
	}
	return logger
}

// newClient builds the backend client from cfg: base URL, timeout and the
// persisted session cookie.
func newClient(cfg *config.Config, logger *zap.Logger) (*api.Client, error) {
	if _, err := api.ParseBaseURL(cfg.Client.BaseURL); err != nil {
		return nil, NewValidationError("url", cfg.Client.BaseURL, err.Error())
	}
	cookies, err := storage.NewCookieStore(cfg.Client.CookieFile)
	if err != nil {
		return nil, fmt.Errorf("open cookie store: %w", err)
	}
	return api.NewClient(cfg.Client.BaseURL).
		WithLogger(logger).
		WithTimeout(cfg.ClientTimeout()).
		WithCookieStore(cookies), nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
