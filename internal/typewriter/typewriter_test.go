// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typewriter

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// countingTicker never blocks and counts ticks.
type countingTicker struct {
	ticks *int
}

func (c countingTicker) Wait(ctx context.Context) error {
	*c.ticks++
	return ctx.Err()
}

func countingFactory(ticks *int) TickerFactory {
	return func(time.Duration) Ticker { return countingTicker{ticks: ticks} }
}

// =============================================================================
// OUTPUT
// =============================================================================

func TestRender_ConcatenationEqualsInput(t *testing.T) {
	inputs := []string{
		"a",
		"Hello, world!",
		"\tindented line" + terminal.EOL,
		"café au lait, naïve",
		"flags 🇳🇴 and é",
	}

	for _, in := range inputs {
		rec := terminal.NewRecorder()
		r := New(rec, WithInterval(0))

		require.NoError(t, r.Render(context.Background(), in))
		assert.Equal(t, in, strings.Join(rec.Writes(), ""))
		assert.Equal(t, 1, rec.Flushes(), "exactly one acknowledged write for %q", in)
	}
}

func TestRender_GraphemeUnits(t *testing.T) {
	rec := terminal.NewRecorder()
	r := New(rec, WithInterval(0))

	require.NoError(t, r.Render(context.Background(), "é🇳🇴x"))
	assert.Equal(t, []string{"é", "🇳🇴", "x"}, rec.Writes())
}

func TestRender_EmptyTextTouchesNothing(t *testing.T) {
	rec := terminal.NewRecorder()
	ticks := 0
	r := New(rec, WithTickerFactory(countingFactory(&ticks)))

	require.NoError(t, r.Render(context.Background(), ""))
	assert.Empty(t, rec.Writes())
	assert.Zero(t, ticks)
}

func TestRenderLine(t *testing.T) {
	rec := terminal.NewRecorder()
	r := New(rec, WithInterval(0))
	ctx := context.Background()

	require.NoError(t, r.RenderLine(ctx, "hi"))
	require.NoError(t, r.RenderLine(ctx, ""))
	assert.Equal(t, "hi\n\r\n\r", rec.Transcript())
}

// =============================================================================
// RHYTHM
// =============================================================================

func TestRender_IdleSchedule(t *testing.T) {
	tests := []struct {
		text  string
		ticks int
	}{
		{"a", 1},
		{"ab", 2},
		{"a.", 2},          // idle after the last unit is never spent
		{".a", 1 + 3 + 1},  // punctuation holds three ticks
		{" a", 1 + 2 + 1},  // space holds two
		{"-a", 1 + 2 + 1},  // so does a hyphen
		{"a, b", 1 + 1 + 3 + 1 + 2 + 1},
		{"?!x", 1 + 3 + 1 + 3 + 1},
	}

	for _, tt := range tests {
		ticks := 0
		rec := terminal.NewRecorder()
		r := New(rec, WithTickerFactory(countingFactory(&ticks)))

		require.NoError(t, r.Render(context.Background(), tt.text))
		assert.Equal(t, tt.ticks, ticks, "ticks for %q", tt.text)
	}
}

func TestIdleTicks(t *testing.T) {
	for _, u := range []string{".", ",", "!", "?", ";", ":"} {
		assert.Equal(t, 3, IdleTicks(u), u)
	}
	assert.Equal(t, 2, IdleTicks(" "))
	assert.Equal(t, 2, IdleTicks("-"))
	assert.Equal(t, 0, IdleTicks("a"))
	assert.Equal(t, 0, IdleTicks("\t"))
}

func TestRender_RealLimiterPacing(t *testing.T) {
	rec := terminal.NewRecorder()
	r := New(rec, WithInterval(2*time.Millisecond))

	start := time.Now()
	require.NoError(t, r.Render(context.Background(), "abcde"))
	// five units, first one a full interval in
	assert.GreaterOrEqual(t, time.Since(start), 8*time.Millisecond)
}

// =============================================================================
// COMPLETION AND CANCELLATION
// =============================================================================

// asyncSurface acknowledges flushed writes from another goroutine.
type asyncSurface struct {
	mu     sync.Mutex
	writes []string
	keys   chan terminal.KeyEvent
	wg     sync.WaitGroup
}

func (s *asyncSurface) Write(text string) {
	s.mu.Lock()
	s.writes = append(s.writes, text)
	s.mu.Unlock()
}

func (s *asyncSurface) WriteFlushed(text string, done func()) {
	s.Write(text)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		time.Sleep(5 * time.Millisecond)
		s.Write("<ack>")
		done()
	}()
}

func (s *asyncSurface) Clear() {}
func (s *asyncSurface) Keys() <-chan terminal.KeyEvent { return s.keys }

func TestRender_WaitsForAcknowledgement(t *testing.T) {
	s := &asyncSurface{}
	r := New(s, WithInterval(0))

	require.NoError(t, r.Render(context.Background(), "ab"))
	s.Write("after")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, []string{"a", "b", "<ack>", "after"}, s.writes)
}

func TestRender_Cancelled(t *testing.T) {
	rec := terminal.NewRecorder()
	r := New(rec, WithInterval(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Render(ctx, "never finishes")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, rec.Writes())
}

// =============================================================================
// STYLES
// =============================================================================

func TestRenderStyledLine(t *testing.T) {
	rec := terminal.NewRecorder()
	pal := styles.NewPalette(termenv.ANSI)
	r := New(rec, WithInterval(0), WithPalette(pal))

	require.NoError(t, r.RenderStyledLine(context.Background(), styles.BoldRed, "x"))
	assert.Equal(t, "\x1b[31;1mx\n\r\x1b[0m", rec.Transcript())
}

func TestSetStyle_PlainPaletteWritesNothing(t *testing.T) {
	rec := terminal.NewRecorder()
	r := New(rec)

	r.SetStyle(styles.BoldCyan)
	r.ResetStyle()
	assert.Empty(t, rec.Writes())
}

func TestWithPacer(t *testing.T) {
	rec := terminal.NewRecorder()

	r := New(rec, WithPacer(timing.NewPacer(2, false), 10*time.Millisecond))
	assert.Equal(t, 5*time.Millisecond, r.interval)

	r = New(rec, WithPacer(timing.Instant(), 10*time.Millisecond))
	assert.Zero(t, r.interval)
}
