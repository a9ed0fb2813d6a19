// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdServe
	CmdStatus
	CmdExport
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdServe:
		return "serve"
	case CmdStatus:
		return "status"
	case CmdExport:
		return "export"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config: load this file instead of ~/.foodscout/config.toml
	BaseURL    string // --url: backend root, overrides client.base_url
	Addr       string // --addr: listen address for serve
	Verbose    bool
	JSON       bool

	// Subcommand is the first argument after the command, e.g. "show".
	Subcommand string

	// Command-specific flags and positionals.
	Parser *ArgParser

	// Unknown is a command word that was not recognized.
	Unknown string
}

const usageText = `foodscout - 食探 food recommendation chat

Usage:
  foodscout [flags] [command]

Commands:
  tui                        Start the chat TUI (default)
  chat                       Line-mode chat in the terminal
  serve                      Run the conversation backend
  status                     Show backend status
  export <id|n>              Export a conversation transcript
    --format html|md|json    Output format (default: html)
    --output DIR             Output directory (default: current directory)
    --open                   Open the file after exporting
  config show                Show the effective configuration
  config path                Print the config file path
  config init [--force]      Write a default config file
  version                    Show version information
  help                       Show this help

Global flags:
  --config PATH              Use this config file
  --url URL                  Backend URL (overrides client.base_url)
  --addr ADDR                Listen address for serve (overrides server.addr)
  -v, --verbose              Debug logging
  --json                     JSON output (status, version, config show)

Chat commands:
  /new [name]                Start a new conversation
  /list                      List conversations
  /switch n                  Switch to conversation n
  /star n                    Star or unstar conversation n
  /delete n                  Delete conversation n
  /clear                     Clear the current conversation
  /help                      Show chat commands
  退出, exit, quit, q          Leave

TUI keys:
  enter send · tab focus · ctrl+n new · ctrl+d delete · ctrl+s star
  ctrl+l clear · ctrl+e export · ctrl+r refresh · f1 help · ctrl+c quit

Environment:
  FOODSCOUT_HOME             Config directory (default: ~/.foodscout)
  FOODSCOUT_BASE_URL         Backend URL
  FOODSCOUT_SECRET_KEY       Cookie signing secret for serve
  BAIDU_API_KEY              Chat model API key for serve
  NO_COLOR                   Disable colors
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "foodscout %s\n", Version)
	fmt.Fprintf(w, "  Commit:  %s\n", GitCommit)
	fmt.Fprintf(w, "  Built:   %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv, without the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	cmd := CmdTUI
	if len(remaining) > 0 {
		switch strings.ToLower(remaining[0]) {
		case "tui":
			cmd = CmdTUI
		case "chat", "repl":
			cmd = CmdChat
		case "serve", "server":
			cmd = CmdServe
		case "status", "s":
			cmd = CmdStatus
		case "export":
			cmd = CmdExport
		case "config":
			cmd = CmdConfig
		case "version", "--version":
			cmd = CmdVersion
		case "help", "--help", "-h":
			cmd = CmdHelp
		default:
			cmd = CmdHelp
			args.Unknown = remaining[0]
		}
		remaining = remaining[1:]
	}

	args.Parser = NewArgParser(remaining)
	args.Subcommand = args.Parser.Subcommand()
	if args.Parser.BoolFlag("help", "h") {
		cmd = CmdHelp
	}
	// Flags are accepted after the command too.
	if args.Parser.BoolFlag("json") {
		args.JSON = true
	}
	if args.Parser.BoolFlag("verbose", "v") {
		args.Verbose = true
	}
	return cmd, args
}

// parseGlobalFlags pulls the global flags out of argv. Flags may appear
// anywhere before the command.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if len(remaining) > 0 {
			remaining = append(remaining, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		takeValue := func() string {
			if hasValue {
				return value
			}
			if i+1 < len(argv) {
				i++
				return argv[i]
			}
			return ""
		}

		switch name {
		case "--config":
			args.ConfigPath = takeValue()
		case "--url":
			args.BaseURL = takeValue()
		case "--addr":
			args.Addr = takeValue()
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// =============================================================================
// VERSION / HELP
// =============================================================================

// VersionData is the JSON form of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion handles "version".
func HandleVersion(args Args) error {
	if args.JSON {
		return outputJSON(os.Stdout, VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
	}
	PrintVersion(os.Stdout)
	return nil
}

// HandleHelp handles "help". An unrecognized command prints the usage to
// stderr and fails.
func HandleHelp(args Args) error {
	if args.Unknown != "" {
		PrintUsage(os.Stderr)
		return NewValidationError("command", args.Unknown, "unknown command")
	}
	PrintUsage(os.Stdout)
	return nil
}
