// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the foodscout command surface.
//
// Commands:
//
//	foodscout                  Start the chat TUI (default)
//	foodscout chat             Line-mode chat REPL
//	foodscout serve            Run the conversation backend
//	foodscout status           Show backend status
//	foodscout export <id>      Export a conversation transcript
//	foodscout config [sub]     Show, locate or create the config file
//	foodscout version          Show version information
//	foodscout help             Show usage
//
// Handlers return errors; main prints them and picks the exit code with
// GetExitCode.
package cli
