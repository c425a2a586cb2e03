// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal defines the display surface the narrative engine writes
// to, and the stream and in-memory implementations of it.
//
// # Key Types
//
//   - Surface: write, write-with-acknowledgement, clear, and a key stream
//   - KeySlot: single-slot key buffer, newest press wins
//   - Stream: stdout/stdin surface, raw mode via golang.org/x/term, screen
//     control via termenv
//   - Recorder: in-memory surface with scripted keys
//
// The full-screen bubbletea surface lives in internal/ui/screen.
package terminal
