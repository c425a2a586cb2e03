// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timing provides the pacing and randomness primitives the narrative
// engine is built on.
//
// Every pause in the game goes through a Pacer so that a single speed setting
// (or --instant) controls the whole run. Every random draw goes through a
// Source so scenes can be replayed deterministically in tests.
//
// # Bounds
//
// RandomInt(src, from, to) draws from [from, to). Session budgets use
// RandomInt(src, 5, 10), so the result is always in 5..9.
package timing
