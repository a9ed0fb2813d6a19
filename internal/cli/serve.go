// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/foodscout-tui/internal/bot"
	"github.com/jeranaias/foodscout-tui/internal/config"
	"github.com/jeranaias/foodscout-tui/internal/logging"
	"github.com/jeranaias/foodscout-tui/internal/server"
	"github.com/jeranaias/foodscout-tui/internal/sessionstore"
)

// shutdownTimeout bounds the wait for in-flight requests on exit.
const shutdownTimeout = 15 * time.Second

// HandleServe runs the conversation backend until SIGINT or SIGTERM.
func HandleServe(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger, err := logging.NewServer(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sessionstore.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	srv, err := server.New(cfg.Server, store, logger)
	if err != nil {
		_ = store.Close()
		return err
	}

	// Without a model key the server still serves conversations; chat
	// answers with the unavailable message.
	if b, err := bot.New(cfg.Bot, logger); err != nil {
		logger.Warn("BOT_UNAVAILABLE", zap.Error(err))
	} else {
		srv.WithBot(b)
		go pingBot(ctx, b, logger)
	}

	if path := watchPath(args); path != "" {
		go func() {
			err := config.Watch(ctx, path,
				func(next *config.Config) {
					config.SetGlobal(next)
					srv.ApplyConfig(next)
				},
				func(err error) {
					logger.Warn("CONFIG_RELOAD_FAILED", zap.Error(err))
				})
			if err != nil {
				logger.Warn("CONFIG_WATCH_FAILED", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		_ = store.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// pingBot checks the model endpoint once so a bad key shows up in the log
// at startup rather than on the first chat.
func pingBot(ctx context.Context, b *bot.Bot, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := b.Ping(ctx); err != nil {
		logger.Warn("BOT_PING_FAILED", zap.Error(err))
		return
	}
	logger.Info("BOT_READY")
}

// watchPath returns the config file to watch, or "" when there is none.
func watchPath(args Args) string {
	if args.ConfigPath != "" {
		return args.ConfigPath
	}
	for _, pathFn := range []func() (string, error){config.ConfigPathTOML, config.ConfigPathJSON} {
		if path, err := pathFn(); err == nil {
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}
