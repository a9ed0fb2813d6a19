// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// foodscout.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env loading, environment variable overrides, validation, and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ClientConfig: Backend URL, request timeout, cookie persistence
//   - ServerConfig, StoreConfig: `foodscout serve` settings
//   - BotConfig: OpenAI-compatible model endpoint used by the food bot
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FOODSCOUT_*, plus BAIDU_API_KEY and REDIS_URL)
//   - ./.env (never overriding variables already set)
//   - ~/.foodscout/config.toml
//   - ~/.foodscout/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.Client.BaseURL)
//
// Reload on change (server only):
//
//	go config.Watch(ctx, path, func(c *config.Config) { srv.ApplyConfig(c) }, nil)
package config
