// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/foodscout-tui/internal/config"
)

const configUsage = "foodscout config [show|path|get <key>|init [--force]]"

// HandleConfig handles "config" and its subcommands.
func HandleConfig(args Args) error {
	return runConfig(os.Stdout, args)
}

func runConfig(w io.Writer, args Args) error {
	sub := args.Parser.Positional(0)
	switch sub {
	case "", "show":
		return configShow(w, args)
	case "path":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil
	case "get":
		key := args.Parser.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "foodscout config get <key>")
		}
		return configGet(w, args, key)
	case "init":
		return configInit(w, args, args.Parser.BoolFlag("force"))
	default:
		return &ValidationError{Field: "subcommand", Value: sub, Reason: "unknown config subcommand", Example: configUsage}
	}
}

// configShow prints the effective config with secrets redacted.
func configShow(w io.Writer, args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	// String already emits indented JSON, so both modes share it.
	if !args.JSON {
		if path, perr := configPath(args); perr == nil {
			fmt.Fprintln(w, DimStyle.Render("# "+path))
		}
	}
	fmt.Fprintln(w, cfg.String())
	return nil
}

func configGet(w io.Writer, args Args, key string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	// Read through the redacted copy so secrets never reach stdout.
	redacted := cfg.Clone()
	if redacted.Bot.APIKey != "" {
		redacted.Bot.APIKey = "[REDACTED]"
	}
	if redacted.Server.SecretKey != "" {
		redacted.Server.SecretKey = "[REDACTED]"
	}
	v, err := redacted.Get(key)
	if err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "foodscout config get ui.theme"}
	}
	if args.JSON {
		return outputJSON(w, map[string]any{"key": key, "value": v})
	}
	fmt.Fprintln(w, v)
	return nil
}

// configInit writes a default config file, as JSON when the path ends in
// .json and TOML otherwise. An existing file is kept unless force is set.
func configInit(w io.Writer, args Args, force bool) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return NewCommandError("config", "init",
			fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	save := config.SaveTOML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		save = config.SaveJSON
	}
	if err := save(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintln(w, SuccessStyle.Render("✓ ")+"已写入 "+path)
	return nil
}

// configPath is --config when given, otherwise the default TOML path.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}
