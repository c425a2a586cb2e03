// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/muesli/termenv"
)

// Style names one of the escape-sequence styles the engine switches between
// while typing.
type Style int

const (
	Default Style = iota
	BoldGreen
	BoldRed
	BoldYellow
	BoldMagenta
	Magenta16
	BoldBlue
	BoldCyan
)

// Narrative roles mapped onto styles.
const (
	MenuStyle     = Magenta16
	AckStyle      = BoldMagenta
	NoteStyle     = BoldCyan
	GreetingStyle = BoldGreen
	AlertStyle    = BoldRed
	CommandStyle  = BoldYellow
)

func (s Style) String() string {
	switch s {
	case Default:
		return "default"
	case BoldGreen:
		return "boldGreen"
	case BoldRed:
		return "boldRed"
	case BoldYellow:
		return "boldYellow"
	case BoldMagenta:
		return "boldMagenta"
	case Magenta16:
		return "magenta"
	case BoldBlue:
		return "boldBlue"
	case BoldCyan:
		return "boldCyan"
	default:
		return "unknown"
	}
}

// Palette turns styles into escape sequences for a given color profile.
// With termenv.Ascii every sequence is empty, so output stays plain.
type Palette struct {
	profile termenv.Profile
}

// NewPalette returns a palette for profile.
func NewPalette(profile termenv.Profile) Palette {
	return Palette{profile: profile}
}

// Plain returns a palette that emits no escape sequences.
func Plain() Palette {
	return Palette{profile: termenv.Ascii}
}

// Profile returns the palette's color profile.
func (p Palette) Profile() termenv.Profile {
	return p.profile
}

// Sequence returns the escape sequence that switches the terminal to s.
func (p Palette) Sequence(s Style) string {
	if p.profile == termenv.Ascii {
		return ""
	}

	var params []string
	switch s {
	case Default:
		params = []string{termenv.ResetSeq}
	case BoldGreen:
		params = []string{termenv.ANSIGreen.Sequence(false), termenv.BoldSeq}
	case BoldRed:
		params = []string{termenv.ANSIRed.Sequence(false), termenv.BoldSeq}
	case BoldYellow:
		params = []string{termenv.ANSIYellow.Sequence(false), termenv.BoldSeq}
	case BoldMagenta:
		params = []string{termenv.ANSIMagenta.Sequence(false), termenv.BoldSeq}
	case Magenta16:
		params = []string{termenv.ANSIMagenta.Sequence(false)}
	case BoldBlue:
		params = []string{termenv.ANSIBlue.Sequence(false), termenv.BoldSeq}
	case BoldCyan:
		params = []string{termenv.ANSICyan.Sequence(false), termenv.BoldSeq}
	default:
		return ""
	}
	return termenv.CSI + strings.Join(params, ";") + "m"
}

// Reset returns the sequence that restores the default style.
func (p Palette) Reset() string {
	return p.Sequence(Default)
}
