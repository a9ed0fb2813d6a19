// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat screen of the foodscout TUI.

The screen is a single Bubble Tea model with three panes: the conversation
list on the left, the transcript on the right and the input line below.
All state changes happen in Update; every backend call runs as a tea.Cmd
and comes back as a message.

# Key Components

## Model (model.go)

The Model struct owns the screen state:
  - the conversation list state (current and selected conversation, cursor)
  - the transcript shown for the current conversation
  - the open modal, if any, and what closing it should do
  - toasts and the typing indicator

## Commands (commands.go)

The Backend interface is the subset of *api.Client the screen needs. Each
endpoint has a command constructor returning a tea.Cmd.

## Update Loop (update.go)

Key handling and the result handlers for every backend call:
  - list refresh, conversation switch (sequenced with switch tokens)
  - send with an implicit "name your conversation" prompt
  - new, delete, star and clear with their confirmations
  - transcript export (ExportCmd in commands.go)

## View Rendering (view.go)

Header, list pane, transcript pane, input box and status bar, with modal
and toast overlays.

# Usage

	client := api.NewClient(cfg.Client.BaseURL)
	m := chat.New(client, chat.Options{Theme: styles.NewTheme(cfg.UI.Theme)})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
*/
package chat
