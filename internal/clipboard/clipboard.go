// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clipboard copies note text out of the game.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

var (
	// ErrUnavailable is returned when no clipboard mechanism could take the text.
	ErrUnavailable = errors.New("clipboard unavailable")

	// ErrUnconfirmed is returned when the text only went out through the
	// terminal fallback, which cannot report whether it landed.
	ErrUnconfirmed = errors.New("clipboard copy unconfirmed")
)

// Clipboard accepts text for the player to paste elsewhere.
type Clipboard interface {
	CopyText(text string) error
}

// Copier is a terminal that can set the clipboard through an escape
// sequence (OSC 52). terminal.Stream and screen.Screen satisfy it.
type Copier interface {
	Copy(text string)
}

// =============================================================================
// SYSTEM CLIPBOARD
// =============================================================================

// System writes to the operating system clipboard.
type System struct {
	// Fallback, if set, receives the text when the system clipboard is
	// missing or fails. Over SSH this is usually the only working path.
	Fallback Copier

	write       func(string) error
	unsupported bool
}

// NewSystem returns a System clipboard with an optional OSC 52 fallback.
func NewSystem(fallback Copier) *System {
	return &System{
		Fallback:    fallback,
		write:       clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
	}
}

// CopyText implements Clipboard. When the system clipboard fails the text
// is still handed to Fallback, but the result wraps ErrUnconfirmed.
func (s *System) CopyText(text string) error {
	var err error
	if s.unsupported {
		err = ErrUnavailable
	} else if err = s.write(text); err == nil {
		return nil
	}

	if s.Fallback != nil {
		s.Fallback.Copy(text)
		return fmt.Errorf("copy to clipboard: %w: %w", ErrUnconfirmed, err)
	}
	return fmt.Errorf("copy to clipboard: %w", err)
}

// =============================================================================
// FAKES
// =============================================================================

// Memory records copied text. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	copied []string
}

// CopyText implements Clipboard.
func (m *Memory) CopyText(text string) error {
	m.mu.Lock()
	m.copied = append(m.copied, text)
	m.mu.Unlock()
	return nil
}

// Copied returns every text copied so far, oldest first.
func (m *Memory) Copied() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.copied...)
}

// Failing rejects every copy with Err, or ErrUnavailable when Err is nil.
type Failing struct {
	Err error
}

// CopyText implements Clipboard.
func (f Failing) CopyText(string) error {
	if f.Err != nil {
		return f.Err
	}
	return ErrUnavailable
}
