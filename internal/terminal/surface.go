// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal defines the display surface the narrative engine writes
// to, and the stream and in-memory implementations of it.
package terminal

import "errors"

// ErrInputClosed is reported by readers when the key stream has ended and no
// further key presses can arrive.
var ErrInputClosed = errors.New("terminal: key input closed")

// EOL is the line terminator used by the engine. Raw-mode terminals do not
// translate "\n" into a carriage return, so both are written.
const EOL = "\n\r"

// KeyEvent is a single key press. Key is the printable text of the key
// ("1", "a") or a name for special keys ("Enter", "Escape").
type KeyEvent struct {
	Key string
}

// Surface is the terminal-like widget the engine renders into.
//
// Write and WriteFlushed accept plain text and style escape sequences.
// WriteFlushed calls onFlushed once the surface has taken the text; the
// typewriter relies on that acknowledgement to order its output.
// Keys delivers key presses and is closed when input ends.
type Surface interface {
	Write(text string)
	WriteFlushed(text string, onFlushed func())
	Clear()
	Keys() <-chan KeyEvent
}

// PendingDiscarder is implemented by surfaces whose key presses are only
// meaningful while a prompt is waiting. Readers call DiscardPending right
// before they start waiting so stray presses made during narration are
// dropped.
type PendingDiscarder interface {
	DiscardPending()
}

// =============================================================================
// KEY SLOT
// =============================================================================

// KeySlot is a single-slot key buffer where the newest press wins.
// One goroutine offers, one goroutine receives.
type KeySlot struct {
	ch chan KeyEvent
}

// NewKeySlot creates an empty slot.
func NewKeySlot() *KeySlot {
	return &KeySlot{ch: make(chan KeyEvent, 1)}
}

// Offer stores ev, replacing any press that has not been consumed yet.
func (s *KeySlot) Offer(ev KeyEvent) {
	for {
		select {
		case s.ch <- ev:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// C returns the receive side of the slot.
func (s *KeySlot) C() <-chan KeyEvent {
	return s.ch
}

// DiscardPending empties the slot.
func (s *KeySlot) DiscardPending() {
	select {
	case <-s.ch:
	default:
	}
}

// Close closes the slot. No Offer may follow.
func (s *KeySlot) Close() {
	close(s.ch)
}
