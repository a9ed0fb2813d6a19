// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable widgets of the foodscout chat screen.

# Components

  - ToastManager (toast.go) - non-blocking notifications that auto-dismiss
  - Modal (modal.go) - blocking alert, confirm and name-prompt dialogs
  - ConversationList (list.go) - the sidebar rows, header and empty placeholder
  - Typing (typing.go) - the "食探AI 正在思考" indicator

Components never perform I/O. They hold view state and return results the
chat model acts on.
*/
package components
