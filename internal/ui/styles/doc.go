// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for tgl.
//
// Two layers live here:
//
//   - Palette: the ANSI escape sequences the typewriter writes inline
//     (boldGreen, boldRed, boldYellow, boldMagenta, magenta, boldBlue,
//     boldCyan, default), built from termenv constants and degraded to empty
//     strings for the Ascii profile.
//   - Theme: lipgloss styles for the full-screen frame and CLI listings, in
//     the game's terminal colors.
package styles
