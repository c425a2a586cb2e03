// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Stream is a Surface over a plain output stream and a keyboard input file.
//
// When the input is a terminal it is switched to raw mode, so every key press
// is delivered on its own and presses made outside a prompt are discarded.
// When the input is a pipe every byte is queued in order; line breaks and
// blanks are skipped, so "1\n2\n" scripts two choices.
type Stream struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	output *termenv.Output
	err    error

	keys        *KeySlot
	queued      chan KeyEvent
	interactive bool

	restore     func() error
	onInterrupt func()
	started     bool
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithInterrupt sets the function called when Ctrl+C is read from a raw
// terminal. The CLI uses it to cancel the run context.
func WithInterrupt(fn func()) StreamOption {
	return func(s *Stream) {
		s.onInterrupt = fn
	}
}

// WithProfile forces the termenv color profile of the output.
func WithProfile(p termenv.Profile) StreamOption {
	return func(s *Stream) {
		s.output = termenv.NewOutput(s.buf, termenv.WithProfile(p))
	}
}

// NewStream creates a stream surface writing to out.
// Call Start to begin reading keys.
func NewStream(out io.Writer, opts ...StreamOption) *Stream {
	buf := bufio.NewWriter(out)
	s := &Stream{
		buf:    buf,
		output: termenv.NewOutput(buf),
		keys:   NewKeySlot(),
		queued: make(chan KeyEvent, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// OUTPUT
// =============================================================================

// Write buffers text for output.
func (s *Stream) Write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked(text)
}

// WriteFlushed writes text, flushes the buffer and then acknowledges.
func (s *Stream) WriteFlushed(text string, onFlushed func()) {
	s.mu.Lock()
	s.writeLocked(text)
	s.flushLocked()
	s.mu.Unlock()

	if onFlushed != nil {
		onFlushed()
	}
}

// Clear erases the screen and homes the cursor.
func (s *Stream) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output.ClearScreen()
	s.flushLocked()
}

// Copy places text on the clipboard of the hosting terminal with OSC52.
// Terminals that do not support OSC52 silently ignore it.
func (s *Stream) Copy(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output.Copy(text)
	s.flushLocked()
}

// Flush forces buffered output to the underlying writer.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
	return s.err
}

// Err returns the first write error seen by the stream.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) writeLocked(text string) {
	if s.err != nil {
		return
	}
	if _, err := s.buf.WriteString(text); err != nil {
		s.err = err
	}
}

func (s *Stream) flushLocked() {
	if s.err != nil {
		return
	}
	if err := s.buf.Flush(); err != nil {
		s.err = err
	}
}

// =============================================================================
// INPUT
// =============================================================================

// Keys implements Surface.
func (s *Stream) Keys() <-chan KeyEvent {
	if s.interactive {
		return s.keys.C()
	}
	return s.queued
}

// DiscardPending drops a press made while no prompt was waiting. Piped input
// is never discarded.
func (s *Stream) DiscardPending() {
	if s.interactive {
		s.keys.DiscardPending()
	}
}

// Start begins reading keys from in. A terminal input is put into raw mode
// until Close is called. Reading stops when ctx is done or in reaches EOF,
// and the key channel is closed.
func (s *Stream) Start(ctx context.Context, in *os.File) error {
	if s.started {
		return errors.New("terminal: stream already started")
	}
	s.started = true

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		s.interactive = true
		s.restore = func() error { return term.Restore(fd, state) }
	}

	go s.readLoop(ctx, in)
	return nil
}

// Close flushes pending output and restores the terminal mode.
func (s *Stream) Close() error {
	flushErr := s.Flush()
	if s.restore != nil {
		if err := s.restore(); err != nil {
			return err
		}
		s.restore = nil
	}
	return flushErr
}

func (s *Stream) readLoop(ctx context.Context, in io.Reader) {
	defer func() {
		if s.interactive {
			s.keys.Close()
		} else {
			close(s.queued)
		}
	}()

	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			for _, ev := range decodeKeys(buf[:n]) {
				if !s.deliver(ctx, ev) {
					return
				}
			}
		}
		if err != nil || ctx.Err() != nil {
			return
		}
	}
}

// deliver hands a decoded key to the engine. It returns false when reading
// should stop.
func (s *Stream) deliver(ctx context.Context, ev KeyEvent) bool {
	if s.interactive {
		if ev.Key == KeyCtrlC {
			if s.onInterrupt != nil {
				s.onInterrupt()
			}
			return false
		}
		s.keys.Offer(ev)
		return true
	}

	switch ev.Key {
	case KeyEnter, KeySpace, KeyTab:
		return true
	}
	select {
	case s.queued <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// =============================================================================
// KEY DECODING
// =============================================================================

// Names for special keys.
const (
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyTab       = "Tab"
	KeySpace     = " "
	KeyCtrlC     = "Ctrl+C"
)

// decodeKeys turns one read chunk into key events. An escape sequence (arrow
// keys, function keys) arrives as a single chunk and becomes one Escape key.
func decodeKeys(chunk []byte) []KeyEvent {
	if len(chunk) > 0 && chunk[0] == 0x1b {
		return []KeyEvent{{Key: KeyEscape}}
	}

	var events []KeyEvent
	for len(chunk) > 0 {
		r, size := utf8.DecodeRune(chunk)
		chunk = chunk[size:]

		switch {
		case r == '\r' || r == '\n':
			events = append(events, KeyEvent{Key: KeyEnter})
		case r == '\t':
			events = append(events, KeyEvent{Key: KeyTab})
		case r == 0x03:
			events = append(events, KeyEvent{Key: KeyCtrlC})
		case r == 0x7f || r == 0x08:
			events = append(events, KeyEvent{Key: KeyBackspace})
		case r == utf8.RuneError || r < 0x20:
			// unprintable control byte
		default:
			events = append(events, KeyEvent{Key: string(r)})
		}
	}
	return events
}
