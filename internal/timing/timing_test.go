// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package timing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_ZeroReturnsImmediately(t *testing.T) {
	start := time.Now()
	require.NoError(t, Wait(context.Background(), 0))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_Elapses(t *testing.T) {
	start := time.Now()
	require.NoError(t, Wait(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWait_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPacer_Scale(t *testing.T) {
	assert.Equal(t, time.Second, NewPacer(1, false).Scale(time.Second))
	assert.Equal(t, 500*time.Millisecond, NewPacer(2, false).Scale(time.Second))
	assert.Equal(t, time.Second, NewPacer(0, false).Scale(time.Second), "non-positive speed falls back to 1")
	assert.Zero(t, NewPacer(1, true).Scale(time.Second))
	assert.Zero(t, Instant().Scale(FiveSeconds))
}

func TestRandomInt_Bounds(t *testing.T) {
	src := NewSeededSource(1, 2)
	for i := 0; i < 1000; i++ {
		n, err := RandomInt(src, 5, 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 5)
		require.Less(t, n, 10)
	}
}

func TestRandomInt_Degenerate(t *testing.T) {
	src := &SequenceSource{}
	n, err := RandomInt(src, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Zero(t, src.Calls, "an empty range must not draw")
}

func TestRandomInt_InvalidRange(t *testing.T) {
	_, err := RandomInt(&SequenceSource{}, 10, 0)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestPick(t *testing.T) {
	src := &SequenceSource{Values: []int{2}}
	got, ok := Pick(src, []string{"a", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, "c", got)

	_, ok = Pick(src, []string(nil))
	assert.False(t, ok)
	assert.Equal(t, 1, src.Calls, "empty pick must not draw")
}

func TestSequenceSource(t *testing.T) {
	src := &SequenceSource{Values: []int{7, -1}}
	assert.Equal(t, 2, src.IntN(5))
	assert.Equal(t, 4, src.IntN(5))
	assert.Equal(t, 0, src.IntN(5), "exhausted sequence returns 0")
	assert.Equal(t, 3, src.Calls)
}
