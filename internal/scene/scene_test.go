// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tgl/internal/clipboard"
	"github.com/jeranaias/tgl/internal/input"
	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/session"
	"github.com/jeranaias/tgl/internal/storage"
	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/typewriter"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// =============================================================================
// HARNESS
// =============================================================================

var library = notes.NewCollection([]notes.Note{
	{
		ID:       "n1",
		Text:     "Line one\nLine two",
		Original: "orig-1",
		Meta:     notes.Meta{Author: "Alice", Hints: []string{}},
	},
	{
		ID:       "n2",
		Text:     "Another",
		Original: "orig-2",
		Meta:     notes.Meta{Author: "Alice", Hints: []string{"Look closer\nat the edges"}},
	},
	{
		ID:       "n3",
		Text:     "Bob speaks",
		Original: "orig-3",
		Meta:     notes.Meta{Author: "Bob"},
	},
})

type harness struct {
	rec   *terminal.Recorder
	store *storage.MemoryStore
	clip  *clipboard.Memory
	rng   *timing.SequenceSource
	logs  *bytes.Buffer
	rt    *Runtime
	m     *Machine
}

type harnessOpts struct {
	keys      []string
	notes     *notes.Collection
	budget    int // -1 leaves the store empty
	startNote string
	draws     []int
	palette   styles.Palette
	clipboard clipboard.Clipboard
}

func newHarness(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	ctx := context.Background()

	h := &harness{
		rec:   terminal.NewRecorder(o.keys...),
		store: storage.NewMemoryStore(),
		clip:  &clipboard.Memory{},
		rng:   &timing.SequenceSource{Values: o.draws},
		logs:  &bytes.Buffer{},
	}
	if o.budget >= 0 {
		blob := fmt.Sprintf(`{"actionCounter":%d,"playerName":"traveler","breadCrumbs":[]}`, o.budget)
		require.NoError(t, h.store.Set(ctx, session.DefaultKey, blob))
	}
	if o.notes == nil {
		o.notes = library
	}
	var clip clipboard.Clipboard = h.clip
	if o.clipboard != nil {
		clip = o.clipboard
	}

	logger := log.New(h.logs, "", 0)
	mgr, err := session.NewManager(h.store, session.Config{
		Rand:   &timing.SequenceSource{Values: []int{9, 0}},
		Logger: logger,
	})
	require.NoError(t, err)

	pacer := timing.Instant()
	r := typewriter.New(h.rec, typewriter.WithPacer(pacer, timing.TypeInterval), typewriter.WithPalette(o.palette))
	h.rt = &Runtime{
		Surface:     h.rec,
		Renderer:    r,
		Menu:        input.NewMenu(r, h.rec, pacer, logger),
		Session:     mgr,
		Notes:       o.notes,
		Clipboard:   clip,
		Rand:        h.rng,
		Pacer:       pacer,
		Logger:      logger,
		RunID:       "test-run",
		StartNoteID: o.startNote,
	}
	h.m, err = NewMachine(h.rt)
	require.NoError(t, err)
	return h
}

func (h *harness) budget(t *testing.T) int {
	t.Helper()
	blob, ok, err := h.store.Get(context.Background(), session.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	var st struct {
		ActionCounter int `json:"actionCounter"`
	}
	require.NoError(t, json.Unmarshal([]byte(blob), &st))
	return st.ActionCounter
}

// =============================================================================
// DOOR
// =============================================================================

func TestDoor_NothingEndsTheGame(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"2"}, budget: -1, palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Door))
	assert.Equal(t, []State{Door, Ending, Done}, h.m.Trace())

	_, ok, _ := h.store.Get(context.Background(), session.DefaultKey)
	assert.False(t, ok, "the greeting never ran, so no session was created")
}

func TestDoor_Everything(t *testing.T) {
	tests := []struct {
		roll   int
		trace  []State
		flavor bool
	}{
		{roll: 5, trace: []State{Door, Greeting, Exhausted, Ending, Done}, flavor: true},
		{roll: 9, trace: []State{Door, Greeting, Exhausted, Ending, Done}, flavor: true},
		{roll: 4, trace: []State{Door, Ending, Done}},
		{roll: 0, trace: []State{Door, Ending, Done}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("roll=%d", tt.roll), func(t *testing.T) {
			h := newHarness(t, harnessOpts{keys: []string{"4"}, budget: 0, draws: []int{tt.roll}, palette: styles.Plain()})

			require.NoError(t, h.m.Run(context.Background(), Door))
			assert.Equal(t, tt.trace, h.m.Trace())
			assert.Equal(t, 1, h.rng.Calls)
			assert.Equal(t, tt.flavor, strings.Contains(h.rec.Transcript(), "Well, let's believe you, this time..."))
		})
	}
}

func TestDoor_SomethingAndFeelAnythingBothOpen(t *testing.T) {
	for _, key := range []string{"1", "3"} {
		h := newHarness(t, harnessOpts{keys: []string{key}, budget: 0, palette: styles.Plain()})
		require.NoError(t, h.m.Run(context.Background(), Door))
		assert.Equal(t, Greeting, h.m.Trace()[1], "key %s", key)
		assert.Zero(t, h.rng.Calls)
	}
}

// =============================================================================
// GREETING
// =============================================================================

func TestGreeting_ExhaustedSessionNeverEntersRoom(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"1"}, budget: 0, palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Door))
	assert.Equal(t, []State{Door, Greeting, Exhausted, Ending, Done}, h.m.Trace())
	out := h.rec.Transcript()
	assert.Contains(t, out, "\n\rYou are too exhausted, come back another day.\n\r")
	assert.NotContains(t, out, "Hello")
	assert.Zero(t, h.rec.Clears())
}

func TestGreeting_NewPlayerIsWelcomed(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"5"}, budget: -1, palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	out := h.rec.Transcript()
	// session draws: name index 9, budget offset 0
	assert.Contains(t, out, "\n\r> Hello, traveler!\n\r> Take your time and have fun!\n\r\n\rFetching library index...\n\r")
	assert.Equal(t, 4, h.budget(t), "five actions minus the leave")
}

func TestGreeting_EmptyLibrary(t *testing.T) {
	h := newHarness(t, harnessOpts{budget: 3, notes: notes.NewCollection(nil), palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Equal(t, []State{Greeting, Ending, Done}, h.m.Trace())
	assert.Contains(t, h.rec.Transcript(), "The library is empty.\n\r")
	assert.Equal(t, 3, h.budget(t))
}

func TestGreeting_RandomNote(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"5"}, budget: 5, draws: []int{2}, palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(), "\tBob speaks\n\r")
}

func TestGreeting_UnknownStartNoteFallsBackToRandom(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"5"}, budget: 5, startNote: "nope", draws: []int{1}, palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(), "\tAnother\n\r")
	assert.Contains(t, h.logs.String(), "NOTE_NOT_FOUND")
}

// =============================================================================
// ROOM
// =============================================================================

func TestRoom_LastActionExhausts(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"5"}, budget: 1, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Equal(t, []State{Greeting, Room, Exhausted, Ending, Done}, h.m.Trace())

	out := h.rec.Transcript()
	for i, opt := range roomOptions {
		assert.Contains(t, out, fmt.Sprintf("%d. %s\n\r", i+1, opt.Label))
	}
	assert.Equal(t, 0, h.budget(t))
}

func TestRoom_LeaveWithBudgetLeft(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"5"}, budget: 2, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Equal(t, []State{Greeting, Room, Ending, Done}, h.m.Trace())
	assert.Equal(t, 1, h.budget(t))
	assert.NotContains(t, h.rec.Transcript(), "too exhausted")
}

func TestRoom_ShowsNote(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"5"}, budget: 5, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(),
		"> CLS\n\r"+terminal.ClearMarker+"\tLine one\n\r\tLine two\n\r\n\r1. Forward by author\n\r")
	assert.Equal(t, 1, h.rec.Clears())
}

func TestRoom_NoHints(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"4", "5"}, budget: 5, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	out := h.rec.Transcript()
	assert.Contains(t, out, "?? 4\n\r\n\rNo hints available.\n\r\n\r?? 5")
	assert.Equal(t, 1, strings.Count(out, "No hints available."))
	assert.Zero(t, h.rng.Calls, "no random draw without hints")
}

func TestRoom_Hint(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"4", "5"}, budget: 5, startNote: "n2", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(), "?? 4\n\r\tLook closer\n\r\tat the edges\n\r?? 5")
	assert.Equal(t, 1, h.rng.Calls)
}

func TestRoom_ForwardByAuthor(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"3", "1", "5"}, budget: 9, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	out := h.rec.Transcript()

	assert.Equal(t, 2, h.rec.Clears(), "note is redrawn after moving")
	assert.Contains(t, out, "\tAnother\n\r")
	assert.Equal(t, 2, strings.Count(out, "1. Forward by author"), "header shown first and again after moving")

	moved := out[strings.LastIndex(out, terminal.ClearMarker):]
	assert.Contains(t, moved, "\tAnother\n\r\n\r1. Forward by author\n\r")
	assert.NotContains(t, moved, "Line one")
}

func TestRoom_ForwardWithoutRelatedNoteRedraws(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"1", "5"}, budget: 9, startNote: "n3", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Equal(t, 2, h.rec.Clears())
	assert.Equal(t, 2, strings.Count(h.rec.Transcript(), "\tBob speaks\n\r"))
}

func TestRoom_ForwardPingPong(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"1", "1", "5"}, budget: 9, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	out := h.rec.Transcript()
	last := out[strings.LastIndex(out, terminal.ClearMarker):]
	assert.Contains(t, last, "\tLine one\n\r", "two same-author notes alternate")
}

func TestRoom_Copy(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"2", "5"}, budget: 5, startNote: "n2", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Equal(t, []string{"orig-2"}, h.clip.Copied())
	assert.Contains(t, h.rec.Transcript(), "?? 2\n\r\n\rCopying to clipboard... Done.\n\r\n\r?? 5")
}

func TestRoom_CopyFailure(t *testing.T) {
	h := newHarness(t, harnessOpts{
		keys:      []string{"2", "5"},
		budget:    5,
		startNote: "n2",
		palette:   styles.Plain(),
		clipboard: clipboard.Failing{},
	})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(), "Copying to clipboard... Error!\n\r")
	assert.Contains(t, h.logs.String(), "CLIPBOARD_ERROR")
}

func TestRoom_CopyOnlyThroughTerminalFallback(t *testing.T) {
	h := newHarness(t, harnessOpts{
		keys:      []string{"2", "5"},
		budget:    5,
		startNote: "n2",
		palette:   styles.Plain(),
		clipboard: clipboard.Failing{Err: fmt.Errorf("copy to clipboard: %w", clipboard.ErrUnconfirmed)},
	})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(), "Copying to clipboard... Error!\n\r")
	assert.Contains(t, h.logs.String(), "CLIPBOARD_FALLBACK")
}

func TestRoom_RevealAuthor(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"3", "5"}, budget: 5, startNote: "n3", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Contains(t, h.rec.Transcript(), "?? 3\n\r\n\rThe author is Bob\n\r\n\r?? 5")
}

func TestRoom_InvalidKeysCostNothing(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"9", "x", "5"}, budget: 3, startNote: "n1", palette: styles.Plain()})

	require.NoError(t, h.m.Run(context.Background(), Greeting))
	assert.Equal(t, 2, h.budget(t))
}

// =============================================================================
// MACHINE
// =============================================================================

func TestTransitions_Complete(t *testing.T) {
	for _, s := range States {
		targets, ok := Transitions[s]
		require.True(t, ok, "state %s missing from the transition table", s)
		for _, next := range targets {
			assert.Contains(t, States, next)
			assert.NotEqual(t, s, next, "no self loops")
		}
	}
	assert.Empty(t, Transitions[Done])

	// every state reaches Done
	for _, s := range States {
		seen := map[State]bool{s: true}
		queue := []State{s}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range Transitions[cur] {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		assert.True(t, seen[Done], "%s cannot reach done", s)
	}
}

func TestRun_InvalidStart(t *testing.T) {
	h := newHarness(t, harnessOpts{budget: 5, palette: styles.Plain()})
	for _, s := range []State{Room, Exhausted, Ending, Done} {
		assert.ErrorIs(t, h.m.Run(context.Background(), s), ErrInvalidStart)
	}
}

func TestRun_InputClosed(t *testing.T) {
	h := newHarness(t, harnessOpts{budget: 5, palette: styles.Plain()})

	err := h.m.Run(context.Background(), Door)
	assert.ErrorIs(t, err, terminal.ErrInputClosed)
	assert.Contains(t, h.logs.String(), "RUN_ABORT")
}

func TestRun_Cancelled(t *testing.T) {
	h := newHarness(t, harnessOpts{keys: []string{"1"}, budget: 5, palette: styles.Plain()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.m.Run(ctx, Door), context.Canceled)
}

func TestNewMachine_RequiresCollaborators(t *testing.T) {
	_, err := NewMachine(&Runtime{})
	assert.Error(t, err)
	_, err = NewMachine(nil)
	assert.Error(t, err)
}

func TestParseState(t *testing.T) {
	for _, s := range States {
		got, err := ParseState(strings.ToUpper(s.String()))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseState("attic")
	assert.Error(t, err)
}
