// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"context"

	"github.com/jeranaias/tgl/internal/input"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// Door choices.
const (
	feelThing      = "thing"
	feelNothing    = "nothing"
	feelEverything = "everything"
)

var doorOptions = []input.Option{
	{Label: "I feel *something*!", Choice: feelThing},
	{Label: "I don't feel anything...", Choice: feelNothing},
	{Label: "I do *feel* anything.", Choice: feelThing},
	{Label: "I feel EVERYTHING!..", Choice: feelEverything},
}

// door asks the player what they feel. Claiming everything is a coin flip.
func door(ctx context.Context, rt *Runtime) (State, error) {
	if err := rt.line(ctx, "You stand before pretty much arbitrary door."); err != nil {
		return 0, err
	}
	if err := rt.wait(ctx, timing.HalfSecond); err != nil {
		return 0, err
	}
	if err := rt.lines(ctx, "Do you feel anything?", ""); err != nil {
		return 0, err
	}
	if err := rt.wait(ctx, timing.FiveSeconds); err != nil {
		return 0, err
	}

	choice, err := rt.Menu.Present(ctx, doorOptions, true)
	if err != nil {
		return 0, err
	}

	if choice == feelEverything {
		x, err := timing.RandomInt(rt.Rand, 0, 10)
		if err != nil {
			return 0, err
		}
		rt.Logger.Printf("DOOR_EVERYTHING | run=%s roll=%d", rt.RunID, x)
		if x >= 5 {
			choice = feelThing
			if err := rt.styled(ctx, styles.AlertStyle, "Well, let's believe you, this time..."); err != nil {
				return 0, err
			}
		} else {
			choice = feelNothing
		}
	}

	if choice == feelThing {
		return Greeting, nil
	}
	if err := rt.lines(ctx, "", "No matter how you try, the door remains shut."); err != nil {
		return 0, err
	}
	return Ending, nil
}
