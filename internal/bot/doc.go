// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bot is the food-recommendation assistant behind the /chat endpoint.
//
// It talks to any OpenAI-compatible chat completion API through langchaingo.
// The default target is Baidu Qianfan (ernie-3.5-8k). Replies are reshaped by
// FormatReply so the client formatter has clean paragraphs and lists to work
// with. Request failures never reach the user as errors: Ask turns them into
// short apologetic replies.
package bot
