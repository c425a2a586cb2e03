// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"context"
	"errors"

	"github.com/jeranaias/tgl/internal/clipboard"
	"github.com/jeranaias/tgl/internal/input"
	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/ui/styles"
	"github.com/jeranaias/tgl/internal/util"
)

// Room choices.
const (
	choiceForward = "forwardByAuthor"
	choiceCopy    = "copy"
	choiceAuthor  = "author"
	choiceHint    = "hint"
	choiceLeave   = "leave"
)

var roomOptions = []input.Option{
	{Label: "Forward by author", Choice: choiceForward},
	{Label: "Copy the note.", Choice: choiceCopy},
	{Label: "Reveal the author.", Choice: choiceAuthor},
	{Label: "Show hint", Choice: choiceHint},
	{Label: "Leave...", Choice: choiceLeave},
}

// roomState is what the room remembers between menu rounds.
type roomState struct {
	note     notes.Note
	showNote bool
	showMenu bool
}

// room shows the current note and loops over the room menu. Every answer
// costs one action; running out ends the visit whatever was chosen.
func room(ctx context.Context, rt *Runtime) (State, error) {
	rs := &roomState{note: rt.note, showNote: true, showMenu: true}

	for {
		if rs.showNote {
			if err := rt.showNote(ctx, rs.note); err != nil {
				return 0, err
			}
			rs.showNote = false
		}

		choice, err := rt.Menu.Present(ctx, roomOptions, rs.showMenu)
		if err != nil {
			return 0, err
		}
		rs.showMenu = false

		remaining, err := rt.Session.ConsumeOneAction(ctx)
		if err != nil {
			return 0, err
		}
		if remaining <= 0 {
			return Exhausted, nil
		}

		switch choice {
		case choiceForward:
			rt.forwardByAuthor(rs)
		case choiceCopy:
			err = rt.copyNote(ctx, rs.note)
		case choiceAuthor:
			err = rt.revealAuthor(ctx, rs.note)
		case choiceHint:
			err = rt.showHint(ctx, rs.note)
		case choiceLeave:
			return Ending, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// showNote clears the screen and types the note, one tab-indented line at
// a time.
func (rt *Runtime) showNote(ctx context.Context, n notes.Note) error {
	if err := rt.Command(ctx, CommandClear); err != nil {
		return err
	}

	rt.Renderer.SetStyle(styles.NoteStyle)
	if err := rt.indented(ctx, n.Text); err != nil {
		rt.Renderer.ResetStyle()
		return err
	}
	rt.Renderer.ResetStyle()

	if err := rt.line(ctx, ""); err != nil {
		return err
	}
	return rt.wait(ctx, timing.FiveSeconds)
}

// forwardByAuthor moves to another note by the same author if there is
// one. The note and the full menu are shown again either way.
func (rt *Runtime) forwardByAuthor(rs *roomState) {
	if next, ok := rt.Notes.FindRelatedByAuthor(rs.note); ok {
		rt.Logger.Printf("ROOM_FORWARD | run=%s from=%s to=%s", rt.RunID, rs.note.ID, next.ID)
		rs.note = next
	} else {
		rt.Logger.Printf("ROOM_FORWARD | run=%s from=%s to=none", rt.RunID, rs.note.ID)
	}
	rs.showNote = true
	rs.showMenu = true
}

func (rt *Runtime) copyNote(ctx context.Context, n notes.Note) error {
	status := "Done."
	if err := rt.Clipboard.CopyText(n.Original); err != nil {
		event := "CLIPBOARD_ERROR"
		if errors.Is(err, clipboard.ErrUnconfirmed) {
			event = "CLIPBOARD_FALLBACK"
		}
		rt.Logger.Printf("%s | run=%s note=%s err=%v", event, rt.RunID, n.ID, err)
		status = "Error!"
	}

	if err := rt.line(ctx, ""); err != nil {
		return err
	}
	if err := rt.Progress(ctx, "Copying to clipboard... "+status); err != nil {
		return err
	}
	return rt.line(ctx, "")
}

func (rt *Runtime) revealAuthor(ctx context.Context, n notes.Note) error {
	if err := rt.line(ctx, ""); err != nil {
		return err
	}
	if err := rt.Renderer.Render(ctx, "The author is "); err != nil {
		return err
	}
	if err := rt.styled(ctx, styles.NoteStyle, n.Meta.Author); err != nil {
		return err
	}
	return rt.line(ctx, "")
}

// showHint types one hint drawn at random. No draw happens when the note
// has no hints.
func (rt *Runtime) showHint(ctx context.Context, n notes.Note) error {
	hint, ok := timing.Pick(rt.Rand, n.Meta.Hints)
	if !ok {
		return rt.lines(ctx, "", "No hints available.", "")
	}
	return rt.indented(ctx, hint)
}

// indented types each line of text behind a tab, pausing after each.
func (rt *Runtime) indented(ctx context.Context, text string) error {
	for _, l := range util.SplitLines(text) {
		if err := rt.line(ctx, "\t"+l); err != nil {
			return err
		}
		if err := rt.wait(ctx, timing.HalfSecond); err != nil {
			return err
		}
	}
	return nil
}
