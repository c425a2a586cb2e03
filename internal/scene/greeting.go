// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"context"
	"fmt"

	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// greeting welcomes the player by name and picks the note the room opens
// with. A player with no actions left is turned away.
func greeting(ctx context.Context, rt *Runtime) (State, error) {
	st, err := rt.Session.LoadOrCreate(ctx)
	if err != nil {
		return 0, err
	}
	if st.ActionCounter <= 0 {
		return Exhausted, nil
	}

	err = rt.styled(ctx, styles.GreetingStyle,
		"",
		fmt.Sprintf("> Hello, %s!", st.PlayerName),
		"> Take your time and have fun!",
	)
	if err != nil {
		return 0, err
	}

	if err := rt.line(ctx, ""); err != nil {
		return 0, err
	}
	if err := rt.Progress(ctx, "Fetching library index..."); err != nil {
		return 0, err
	}
	if err := rt.wait(ctx, timing.TwoSeconds); err != nil {
		return 0, err
	}

	if rt.Notes.Len() == 0 {
		if err := rt.line(ctx, "The library is empty."); err != nil {
			return 0, err
		}
		return Ending, nil
	}

	note, err := rt.firstNote()
	if err != nil {
		return 0, err
	}
	rt.note = note
	rt.Logger.Printf("ROOM_NOTE | run=%s note=%s", rt.RunID, note.ID)
	return Room, nil
}

// firstNote honors StartNoteID when it names a known note and otherwise
// draws one uniformly.
func (rt *Runtime) firstNote() (notes.Note, error) {
	if rt.StartNoteID != "" {
		if n, ok := rt.Notes.ByID(rt.StartNoteID); ok {
			return n, nil
		}
		rt.Logger.Printf("NOTE_NOT_FOUND | run=%s note=%s", rt.RunID, rt.StartNoteID)
	}
	return rt.Notes.Random(rt.Rand)
}
