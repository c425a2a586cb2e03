// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"
	"sync"
)

// ClearMarker stands in for a screen clear in a Recorder transcript.
const ClearMarker = "[CLEAR]"

// Recorder is an in-memory Surface. It captures every write and replays a
// scripted list of key presses, closing the key channel once the script is
// used up. Tests and golden transcripts are built on it.
type Recorder struct {
	mu         sync.Mutex
	transcript strings.Builder
	writes     []string
	clears     int
	flushes    int

	keys chan KeyEvent
}

// NewRecorder creates a recorder that will deliver keys in order.
func NewRecorder(keys ...string) *Recorder {
	ch := make(chan KeyEvent, len(keys))
	for _, k := range keys {
		ch <- KeyEvent{Key: k}
	}
	close(ch)
	return &Recorder{keys: ch}
}

// Write implements Surface.
func (r *Recorder) Write(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, text)
	r.transcript.WriteString(text)
}

// WriteFlushed implements Surface. The acknowledgement is synchronous.
func (r *Recorder) WriteFlushed(text string, onFlushed func()) {
	r.mu.Lock()
	r.writes = append(r.writes, text)
	r.transcript.WriteString(text)
	r.flushes++
	r.mu.Unlock()

	if onFlushed != nil {
		onFlushed()
	}
}

// Clear implements Surface.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.transcript.WriteString(ClearMarker)
}

// Keys implements Surface.
func (r *Recorder) Keys() <-chan KeyEvent {
	return r.keys
}

// Transcript returns everything written so far, with clears shown as
// ClearMarker.
func (r *Recorder) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript.String()
}

// Writes returns a copy of the individual write calls.
func (r *Recorder) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.writes))
	copy(out, r.writes)
	return out
}

// Clears returns how many times Clear was called.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// Flushes returns how many WriteFlushed calls were made.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}
