// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests for the complete tgl stack:
// storage, session, notes, typewriter, menu and scene machine wired the way
// the play command wires them, on a recording surface.
package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tgl/internal/clipboard"
	"github.com/jeranaias/tgl/internal/input"
	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/scene"
	"github.com/jeranaias/tgl/internal/session"
	"github.com/jeranaias/tgl/internal/storage"
	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/typewriter"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type visit struct {
	rec   *terminal.Recorder
	trace []scene.State
	clip  *clipboard.Memory
}

// playOnce runs one visit against store, starting at start, answering
// menus with keys.
func playOnce(t *testing.T, store storage.Store, seed uint64, start scene.State, keys ...string) visit {
	t.Helper()

	coll, err := notes.Default()
	require.NoError(t, err)

	rec := terminal.NewRecorder(keys...)
	pacer := timing.Instant()
	rng := timing.NewSeededSource(seed, seed+1)
	renderer := typewriter.New(rec, typewriter.WithPalette(styles.Plain()), typewriter.WithPacer(pacer, timing.TypeInterval))

	mgr, err := session.NewManager(store, session.Config{
		MinActions: session.DefaultMinActions,
		MaxActions: session.DefaultMaxActions,
		Rand:       rng,
	})
	require.NoError(t, err)

	clip := &clipboard.Memory{}
	m, err := scene.NewMachine(&scene.Runtime{
		Surface:   rec,
		Renderer:  renderer,
		Menu:      input.NewMenu(renderer, rec, pacer, nil),
		Session:   mgr,
		Notes:     coll,
		Clipboard: clip,
		Rand:      rng,
		Pacer:     pacer,
		RunID:     fmt.Sprintf("visit-%d", seed),
	})
	require.NoError(t, err)

	require.NoError(t, m.Run(context.Background(), start))
	return visit{rec: rec, trace: m.Trace(), clip: clip}
}

func storedState(t *testing.T, store storage.Store) session.State {
	t.Helper()
	mgr, err := session.NewManager(store, session.Config{
		MinActions: session.DefaultMinActions,
		MaxActions: session.DefaultMaxActions,
		Rand:       timing.NewSeededSource(1, 2),
	})
	require.NoError(t, err)
	st, ok, err := mgr.Peek(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "no session stored")
	return st
}

func openBackends(t *testing.T) map[string]func() storage.Store {
	dir := t.TempDir()
	return map[string]func() storage.Store{
		storage.BackendFile: func() storage.Store {
			s, err := storage.NewFileStore(filepath.Join(dir, "state.json"))
			require.NoError(t, err)
			return s
		},
		storage.BackendSQLite: func() storage.Store {
			s, err := storage.NewSQLiteStore(filepath.Join(dir, "state.db"))
			require.NoError(t, err)
			return s
		},
	}
}

// =============================================================================
// END-TO-END
// =============================================================================

// TestVisitsUntilExhausted returns to the room until the budget runs out.
// Every visit reopens the store, so the budget has to survive on disk.
func TestVisitsUntilExhausted(t *testing.T) {
	for name, open := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := open()
			first := playOnce(t, store, 7, scene.Door, "1", "5")
			require.NoError(t, store.Close())
			require.Contains(t, first.trace, scene.Room)

			store = open()
			st := storedState(t, store)
			require.NoError(t, store.Close())
			budget := st.ActionCounter
			player := st.PlayerName
			assert.Contains(t, session.Names, player)
			assert.GreaterOrEqual(t, budget, session.DefaultMinActions-1)

			for i := 0; budget > 0; i++ {
				require.Less(t, i, session.DefaultMaxActions, "budget never ran out")

				store = open()
				v := playOnce(t, store, uint64(100+i), scene.Greeting, "5")
				require.NoError(t, store.Close())

				assert.Contains(t, v.rec.Transcript(), fmt.Sprintf("> Hello, %s!", player))
				budget--

				store = open()
				assert.Equal(t, budget, storedState(t, store).ActionCounter)
				require.NoError(t, store.Close())
			}

			store = open()
			defer store.Close()
			v := playOnce(t, store, 999, scene.Greeting)
			assert.Equal(t, []scene.State{scene.Greeting, scene.Exhausted, scene.Ending, scene.Done}, v.trace)
			assert.Equal(t, 0, storedState(t, store).ActionCounter)
		})
	}
}

// TestUnreadableStateFileStartsFresh plays from a state file that is not
// a map of strings. The visit reaches the room on a new session.
func TestUnreadableStateFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tgl_game_state": {"actionCounter":3}}`), 0600))
	store, err := storage.NewFileStore(path)
	require.NoError(t, err)

	v := playOnce(t, store, 11, scene.Greeting, "5")
	assert.Equal(t, []scene.State{scene.Greeting, scene.Room, scene.Ending, scene.Done}, v.trace)

	st := storedState(t, store)
	assert.Contains(t, session.Names, st.PlayerName)
	assert.Less(t, st.ActionCounter, session.DefaultMaxActions)
}

func TestCopyReachesClipboard(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	// Copy, then leave. Copy is option 2 in the room menu.
	v := playOnce(t, store, 3, scene.Greeting, "2", "5")

	copied := v.clip.Copied()
	require.Len(t, copied, 1)

	coll, err := notes.Default()
	require.NoError(t, err)
	found := false
	for _, n := range coll.All() {
		if n.Original == copied[0] {
			found = true
		}
	}
	assert.True(t, found, "copied text is not the original of any note")
}

func TestScriptedKeysAfterInvalidInput(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	v := playOnce(t, store, 5, scene.Greeting, "0", "x", "5")
	out := v.rec.Transcript()
	assert.Equal(t, 3, strings.Count(out, input.Prompt), "two bad keys re-prompt before the leave")
}
