// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jeranaias/tgl/internal/clipboard"
	"github.com/jeranaias/tgl/internal/input"
	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/session"
	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/typewriter"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// CommandClear is the pseudo-command that wipes the screen.
const CommandClear = "CLS"

// Runtime is everything a scene handler needs. One Runtime serves one run.
type Runtime struct {
	Surface   terminal.Surface
	Renderer  *typewriter.Renderer
	Menu      *input.Menu
	Session   *session.Manager
	Notes     *notes.Collection
	Clipboard clipboard.Clipboard
	Rand      timing.Source
	Pacer     *timing.Pacer
	Logger    *log.Logger

	// RunID tags log lines of this run.
	RunID string

	// StartNoteID pins the first note shown in the room.
	// Empty picks one at random.
	StartNoteID string

	// note is the note the room opens with, chosen by the greeting.
	note notes.Note
}

func (rt *Runtime) validate() error {
	switch {
	case rt == nil:
		return errors.New("scene: nil runtime")
	case rt.Surface == nil:
		return errors.New("scene: runtime has no surface")
	case rt.Renderer == nil:
		return errors.New("scene: runtime has no renderer")
	case rt.Menu == nil:
		return errors.New("scene: runtime has no menu")
	case rt.Session == nil:
		return errors.New("scene: runtime has no session manager")
	case rt.Notes == nil:
		return errors.New("scene: runtime has no note collection")
	case rt.Clipboard == nil:
		return errors.New("scene: runtime has no clipboard")
	case rt.Rand == nil:
		return errors.New("scene: runtime has no random source")
	}
	if rt.Pacer == nil {
		rt.Pacer = timing.NewPacer(1, false)
	}
	if rt.Logger == nil {
		rt.Logger = log.New(io.Discard, "", 0)
	}
	return nil
}

// =============================================================================
// NARRATION HELPERS
// =============================================================================

// line types text and a line break.
func (rt *Runtime) line(ctx context.Context, text string) error {
	return rt.Renderer.RenderLine(ctx, text)
}

// lines types each text as its own line, stopping at the first error.
func (rt *Runtime) lines(ctx context.Context, texts ...string) error {
	for _, t := range texts {
		if err := rt.line(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// styled types lines in style s.
func (rt *Runtime) styled(ctx context.Context, s styles.Style, texts ...string) error {
	rt.Renderer.SetStyle(s)
	defer rt.Renderer.ResetStyle()
	return rt.lines(ctx, texts...)
}

func (rt *Runtime) wait(ctx context.Context, d time.Duration) error {
	return rt.Pacer.Wait(ctx, d)
}

// Command echoes "> name" in the command style. CLS then pauses briefly and
// clears the surface; any other command is echo only.
func (rt *Runtime) Command(ctx context.Context, name string) error {
	if err := rt.styled(ctx, styles.CommandStyle, "> "+name); err != nil {
		return err
	}
	if name != CommandClear {
		return nil
	}
	if err := rt.wait(ctx, timing.HalfSecond); err != nil {
		return err
	}
	rt.Surface.Clear()
	return nil
}

// Progress types msg in the alert style and holds for three seconds.
func (rt *Runtime) Progress(ctx context.Context, msg string) error {
	if err := rt.styled(ctx, styles.AlertStyle, msg); err != nil {
		return err
	}
	return rt.wait(ctx, timing.ThreeSeconds)
}
