// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for tgl.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// TERMINAL THEME
// =============================================================================

// The game's terminal theme. The full-screen surface paints with these and
// the CLI reuses them for its own output.
var (
	Foreground    = lipgloss.Color("#F8F8F8")
	Background    = lipgloss.Color("#2D2E2C")
	Selection     = lipgloss.Color("#5DA5D533")
	Black         = lipgloss.Color("#1E1E1D")
	BrightBlack   = lipgloss.Color("#262625")
	Red           = lipgloss.Color("#CE5C5C")
	BrightRed     = lipgloss.Color("#FF7272")
	Green         = lipgloss.Color("#5BCC5B")
	BrightGreen   = lipgloss.Color("#72FF72")
	Yellow        = lipgloss.Color("#CCCC5B")
	BrightYellow  = lipgloss.Color("#FFFF72")
	Blue          = lipgloss.Color("#5D5DD3")
	BrightBlue    = lipgloss.Color("#7279FF")
	Magenta       = lipgloss.Color("#BC5ED1")
	BrightMagenta = lipgloss.Color("#E572FF")
	Cyan          = lipgloss.Color("#5DA5D5")
	BrightCyan    = lipgloss.Color("#72F0FF")
	White         = lipgloss.Color("#F8F8F8")
	BrightWhite   = lipgloss.Color("#FFFFFF")
)

// Muted is used for frame chrome and secondary CLI text.
var Muted = lipgloss.Color("#6C7086")
