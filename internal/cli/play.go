// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jeranaias/tgl/internal/clipboard"
	"github.com/jeranaias/tgl/internal/config"
	"github.com/jeranaias/tgl/internal/input"
	"github.com/jeranaias/tgl/internal/notes"
	"github.com/jeranaias/tgl/internal/scene"
	"github.com/jeranaias/tgl/internal/session"
	"github.com/jeranaias/tgl/internal/storage"
	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/typewriter"
	"github.com/jeranaias/tgl/internal/ui/screen"
	"github.com/jeranaias/tgl/internal/ui/styles"
	"github.com/jeranaias/tgl/internal/util"
)

// =============================================================================
// FLAGS
// =============================================================================

type playFlags struct {
	from    string
	note    string
	plain   bool
	instant bool
}

func (pf *playFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.from, "from", "door", "scene to start at: door or greeting")
	cmd.Flags().StringVar(&pf.note, "note", "", "ID of the first note shown in the room")
	cmd.Flags().BoolVar(&pf.plain, "plain", false, "write to stdout without the full-screen view")
	cmd.Flags().BoolVar(&pf.instant, "instant", false, "skip typing delays and pauses")
}

func (a *app) newPlayCmd() *cobra.Command {
	var pf playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Knock on the door",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlay(cmd, pf)
		},
	}
	pf.register(cmd)
	return cmd
}

// =============================================================================
// PLAY
// =============================================================================

func (a *app) runPlay(cmd *cobra.Command, pf playFlags) error {
	start, err := scene.ParseState(pf.from)
	if err != nil || !scene.CanStartAt(start) {
		return NewValidationErrorWithExample("from", pf.from, "must be door or greeting", "tgl play --from greeting")
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if pf.instant {
		cfg.Pacing.Instant = true
	}

	logger, closeLog, err := openLogger(cfg.Logging)
	if err != nil {
		return NewCommandError("play", "start", "could not open log file", err)
	}
	defer closeLog()

	eng, err := openEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	opts := runOptions{
		start:   start,
		noteID:  pf.note,
		palette: styles.NewPalette(GetColorProfile(cfg)),
	}

	mode := ResolveUIMode(cfg.UI.Mode, pf.plain)
	logger.Printf("PLAY_START | run=%s mode=%s from=%s backend=%s", eng.runID, mode, start, cfg.Storage.Backend)

	switch mode {
	case ModeTUI:
		err = eng.playScreen(ctx, opts)
	default:
		err = eng.playStream(ctx, cmd.OutOrStdout(), opts)
	}

	if quit(err) {
		logger.Printf("PLAY_QUIT | run=%s reason=%v", eng.runID, err)
		return nil
	}
	if err != nil {
		logger.Printf("PLAY_ERROR | run=%s error=%q", eng.runID, util.TruncateRunes(err.Error(), 200))
		return NewCommandError("play", "run", "the game stopped", err)
	}
	logger.Printf("PLAY_END | run=%s", eng.runID)
	return nil
}

// quit reports endings that are the player's doing: Ctrl+C or input that
// ran out, as when a scripted pipe is exhausted.
func quit(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, terminal.ErrInputClosed)
}

// =============================================================================
// ENGINE WIRING
// =============================================================================

// engine holds the long-lived parts of one play run.
type engine struct {
	cfg    *config.Config
	store  storage.Store
	notes  *notes.Collection
	logger *log.Logger
	runID  string
}

type runOptions struct {
	start   scene.State
	noteID  string
	palette styles.Palette
}

func openEngine(cfg *config.Config, logger *log.Logger) (*engine, error) {
	coll, err := loadNotes(cfg)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	return &engine{
		cfg:    cfg,
		store:  store,
		notes:  coll,
		logger: logger,
		runID:  uuid.NewString(),
	}, nil
}

// Close releases the store.
func (e *engine) Close() error {
	return e.store.Close()
}

// play assembles the runtime on surface and runs the scene machine.
func (e *engine) play(ctx context.Context, surface terminal.Surface, clip clipboard.Clipboard, opts runOptions) error {
	rng, err := timing.NewSource()
	if err != nil {
		return fmt.Errorf("seed random source: %w", err)
	}

	pacer := timing.NewPacer(e.cfg.Pacing.Speed, e.cfg.Pacing.Instant)
	renderer := typewriter.New(surface,
		typewriter.WithPalette(opts.palette),
		typewriter.WithPacer(pacer, e.cfg.TypeInterval()),
	)

	mgr, err := session.NewManager(e.store, session.Config{
		Key:        e.cfg.Game.StateKey,
		MinActions: e.cfg.Game.MinActions,
		MaxActions: e.cfg.Game.MaxActions,
		Rand:       rng,
		Logger:     e.logger,
	})
	if err != nil {
		return err
	}

	machine, err := scene.NewMachine(&scene.Runtime{
		Surface:     surface,
		Renderer:    renderer,
		Menu:        input.NewMenu(renderer, surface, pacer, e.logger),
		Session:     mgr,
		Notes:       e.notes,
		Clipboard:   clip,
		Rand:        rng,
		Pacer:       pacer,
		Logger:      e.logger,
		RunID:       e.runID,
		StartNoteID: opts.noteID,
	})
	if err != nil {
		return err
	}
	return machine.Run(ctx, opts.start)
}

// playStream runs on stdout, reading single keys from stdin.
func (e *engine) playStream(ctx context.Context, out io.Writer, opts runOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := terminal.NewStream(out,
		terminal.WithInterrupt(cancel),
		terminal.WithProfile(opts.palette.Profile()),
	)
	if err := stream.Start(ctx, os.Stdin); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer stream.Close()

	var fallback clipboard.Copier
	if e.cfg.UI.OSC52Clipboard {
		fallback = stream
	}
	return e.play(ctx, stream, clipboard.NewSystem(fallback), opts)
}

// playScreen runs inside the full-screen view.
func (e *engine) playScreen(ctx context.Context, opts runOptions) error {
	scr := screen.New(screen.Options{
		Title:     "tgl",
		AltScreen: true,
	})

	var fallback clipboard.Copier
	if e.cfg.UI.OSC52Clipboard {
		fallback = scr
	}
	clip := clipboard.NewSystem(fallback)

	return scr.Run(ctx, func(ctx context.Context) error {
		return e.play(ctx, scr, clip, opts)
	})
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadNotes returns the configured collection or the built-in one.
func loadNotes(cfg *config.Config) (*notes.Collection, error) {
	if cfg.Notes.Path == "" {
		coll, err := notes.Default()
		if err != nil {
			return nil, NewCommandError("notes", "load", "built-in collection is unreadable", err)
		}
		return coll, nil
	}
	coll, err := notes.Load(cfg.Notes.Path)
	if err != nil {
		return nil, &ConfigError{Path: cfg.Notes.Path, Err: err}
	}
	return coll, nil
}

// openStore opens the configured session store.
func openStore(cfg *config.Config) (storage.Store, error) {
	store, err := storage.Open(storage.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
	})
	if err != nil {
		return nil, NewCommandError("storage", "open", cfg.Storage.Backend, err)
	}
	return store, nil
}

// newSessionManager builds a manager for inspection commands.
func newSessionManager(cfg *config.Config, store storage.Store) (*session.Manager, error) {
	rng, err := timing.NewSource()
	if err != nil {
		return nil, err
	}
	return session.NewManager(store, session.Config{
		Key:        cfg.Game.StateKey,
		MinActions: cfg.Game.MinActions,
		MaxActions: cfg.Game.MaxActions,
		Rand:       rng,
	})
}

// openLogger opens the event log. stdout belongs to the game, so events go
// to a file or nowhere.
func openLogger(lc config.LoggingConfig) (*log.Logger, func(), error) {
	if !lc.Enabled || lc.Path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(lc.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}
