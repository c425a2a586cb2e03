// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tgl/internal/clipboard"
	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// Options configures a Screen.
type Options struct {
	// Title is shown above the page.
	Title string

	// Theme styles the frame. Nil uses styles.NewTheme().
	Theme *styles.Theme

	// AltScreen runs in the terminal's alternate screen buffer.
	AltScreen bool

	// Input and Output override stdin and stdout.
	Input  io.Reader
	Output io.Writer
}

// Screen is a terminal.Surface backed by a Bubble Tea program.
type Screen struct {
	program *tea.Program
	slot    *terminal.KeySlot
	cancel  context.CancelFunc
}

var (
	_ terminal.Surface          = (*Screen)(nil)
	_ terminal.PendingDiscarder = (*Screen)(nil)
	_ clipboard.Copier          = (*Screen)(nil)
)

// New creates a screen. Nothing is drawn until Run.
func New(opts Options) *Screen {
	s := &Screen{slot: terminal.NewKeySlot(), cancel: func() {}}

	model := newModel(opts.Theme, s.slot, opts.Title, func() { s.cancel() })

	var progOpts []tea.ProgramOption
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	s.program = tea.NewProgram(model, progOpts...)
	return s
}

// Write implements terminal.Surface.
func (s *Screen) Write(text string) {
	s.program.Send(writeMsg{text: text})
}

// WriteFlushed implements terminal.Surface. onFlushed runs on the event
// loop once the text is part of the page.
func (s *Screen) WriteFlushed(text string, onFlushed func()) {
	s.program.Send(writeMsg{text: text, done: onFlushed})
}

// Clear implements terminal.Surface.
func (s *Screen) Clear() {
	s.program.Send(clearMsg{})
}

// Keys implements terminal.Surface.
func (s *Screen) Keys() <-chan terminal.KeyEvent {
	return s.slot.C()
}

// Copy implements clipboard.Copier. The OSC 52 sequence goes out through the
// program while its renderer is paused, so it never lands inside a frame.
func (s *Screen) Copy(text string) {
	s.program.Send(copyMsg{text: text})
}

// DiscardPending implements terminal.PendingDiscarder.
func (s *Screen) DiscardPending() {
	s.slot.DiscardPending()
}

// Run starts the program and calls play on a separate goroutine with a
// context that is cancelled by Ctrl+C or when the program exits. Run
// returns play's error once both have finished.
func (s *Screen) Run(ctx context.Context, play func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel

	errCh := make(chan error, 1)
	go func() {
		err := play(ctx)
		errCh <- err
		s.program.Send(finishedMsg{err: err})
	}()

	_, runErr := s.program.Run()
	cancel()
	playErr := <-errCh

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return errors.Join(runErr, playErr)
	}
	return playErr
}
