// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the foodscout conversation backend.
//
// Every endpoint returns a JSON envelope with a "success" flag. Failures come
// in two tiers, which callers present differently:
//
//   - Transport failures (connection refused, timeout, non-2xx status,
//     undecodable body) wrap ErrTransport. The UI shows a generic message.
//   - Application failures ("success": false) are *APIError values that
//     carry the server's message verbatim.
//
// The backend keys the session on a cookie, so the client keeps a cookie jar
// and can persist it through a storage.CookieStore.
//
// # Usage
//
//	client := api.NewClient(cfg.Client.BaseURL).
//	    WithTimeout(cfg.ClientTimeout()).
//	    WithLogger(logger)
//	list, err := client.ListConversations(ctx)
//	if msg, ok := api.ServerMessage(err); ok {
//	    // show msg verbatim
//	}
package api
