// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the lipgloss styles used around the game text: the frame of
// the full-screen surface and the CLI listings.
type Theme struct {
	Width  int
	Height int

	Frame     lipgloss.Style
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Hint      lipgloss.Style

	Label lipgloss.Style
	Value lipgloss.Style
	Dim   lipgloss.Style
	Alert lipgloss.Style
}

// NewTheme returns the default theme.
func NewTheme() *Theme {
	t := &Theme{Width: 80, Height: 24}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Frame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Foreground(Foreground).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(BrightCyan)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(Muted)

	t.Hint = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)

	t.Label = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Value = lipgloss.NewStyle().
		Foreground(Foreground)

	t.Dim = lipgloss.NewStyle().
		Foreground(Muted)

	t.Alert = lipgloss.NewStyle().
		Foreground(BrightRed).
		Bold(true)
}

// SetSize records the terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentSize returns the space left inside the frame for a status line and
// the viewport. Frame borders take two columns and rows, padding two columns,
// the status line one row.
func (t *Theme) ContentSize() (width, height int) {
	width = t.Width - t.Frame.GetHorizontalFrameSize()
	height = t.Height - t.Frame.GetVerticalFrameSize() - 1
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
