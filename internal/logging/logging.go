// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap loggers used across foodscout.
//
// Messages follow the EVENT_NAME convention ("API_REQUEST", "CHAT_SEND")
// with typed fields. Request/response bodies, cookies and keys are never
// logged; only sizes and status codes.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/foodscout-tui/internal/config"
)

// ParseLevel maps a config level string to a zap level. Unknown values map
// to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewServer returns a production JSON logger writing to stderr.
func NewServer(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build server logger: %w", err)
	}
	return logger.Named("server"), nil
}

// NewClient returns a console-encoded logger that writes to a file, so the
// full-screen TUI is never interleaved with log lines. The file defaults to
// ~/.foodscout/foodscout.log.
func NewClient(cfg config.LogConfig) (*zap.Logger, error) {
	path := cfg.File
	if path == "" {
		p, err := config.DataPath("foodscout.log")
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.DisableStacktrace = true
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build client logger: %w", err)
	}
	return logger.Named("client"), nil
}

// Nop returns a logger that discards everything. Used by tests and as the
// fallback when a file logger cannot be opened.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
