// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scene is the story: a small state machine that walks the player
// from the door to the library and out again.
//
// # Scene Graph
//
//	Door      -> Greeting (thing) | Ending (nothing)
//	Greeting  -> Room | Exhausted (no budget) | Ending (no notes)
//	Room      -> Exhausted (budget spent) | Ending (leave)
//	Exhausted -> Ending
//	Ending    -> Done
//
// Every state has a handler that does its narration and returns the next
// state. [Transitions] lists the edges a handler may take; [Machine.Run]
// rejects anything else.
//
// All player-facing I/O goes through the Runtime's typewriter and menu.
// A run can start at Door or, for debugging, at Greeting.
package scene
