// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the conversation backend the TUI talks to.
//
// Every response is a JSON envelope with a "success" flag. Failures carry a
// "message" field, except /chat which uses "reply".
//
// # Endpoints
//
//   - GET  /conversations         - List conversations, starred first
//   - POST /conversations/new     - Create a conversation and make it current
//   - POST /conversations/switch  - Make a conversation current, creating unknown ids
//   - POST /conversations/delete  - Delete a conversation
//   - POST /conversations/star    - Toggle the starred flag
//   - POST /chat                  - Send a message to the food bot
//   - POST /clear                 - Clear the current conversation's history
//   - GET  /status                - Bot availability and conversation count
//   - GET  /clear_all             - Reset the session (HTML)
//   - GET  /healthz               - Liveness and counters
//
// # Sessions
//
// Sessions are identified by an HMAC-signed "session" cookie and stored in
// a sessionstore.Store. Requests for the same session are serialized.
//
// # Usage
//
//	store, _ := sessionstore.Open(ctx, cfg.Store, logger)
//	srv, err := server.New(cfg.Server, store, logger)
//	if err != nil {
//		return err
//	}
//	srv.WithBot(foodBot)
//	return srv.Start()
package server
