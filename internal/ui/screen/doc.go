// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screen is the full-screen game surface built on Bubble Tea.
//
// The engine runs in its own goroutine and talks to the Bubble Tea event
// loop only through messages: every Write becomes a message that Update
// appends to a scrolling viewport, and WriteFlushed acknowledges once that
// message has been applied. Key presses travel the other way through a
// single-slot buffer where the newest press wins.
//
// # Usage
//
//	scr := screen.New(screen.Options{Title: "tgl"})
//	err := scr.Run(ctx, func(ctx context.Context) error {
//	    return machine.Run(ctx, scene.Door)
//	})
//
// Ctrl+C cancels the engine and closes the program. When the engine
// finishes on its own the last page stays up until a key is pressed.
package screen
