// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format turns bot replies into display markup.
//
// # HTML
//
// HTML escapes the reply and then applies the reply transforms: line breaks,
// **bold**, list prefixes, paragraph breaks and an outer paragraph. The
// result only ever contains <p>, <br> and <strong> tags, and formatting an
// already formatted string returns it unchanged.
//
// # Terminal
//
// Renderer draws the same replies for a terminal through glamour, falling
// back to a lipgloss renderer when glamour is unavailable.
//
// # Icons
//
// IconFor picks a conversation icon from a declarative keyword table.
package format
