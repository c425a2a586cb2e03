// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the tgl command line.
//
// # Commands
//
//   - tgl, tgl play: play the game (--from, --note, --plain, --instant)
//   - session show, session reset: inspect or forget the saved session
//   - notes list, notes show ID: browse the note collection
//   - config show, init, get, set: manage ~/.tgl/config.toml
//   - version
//
// # Display
//
// play picks the full-screen view when stdin and stdout are terminals and
// a plain stream otherwise. Piped stdin scripts the menu choices, one key
// per byte, which is how the game is driven from scripts.
//
// # Exit Codes
//
//   - 0: success, including a game ended by Ctrl+C or closed input
//   - 1: general error
//   - 2: usage error
//   - 3: configuration error
package cli
