// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timing provides the pacing and randomness primitives the narrative
// engine is built on.
package timing

import (
	"context"
	"time"
)

// =============================================================================
// PACING CONSTANTS
// =============================================================================

const (
	// TypeInterval is the base typewriter tick.
	TypeInterval = 10 * time.Millisecond

	HalfSecond   = 500 * time.Millisecond
	Second       = time.Second
	TwoSeconds   = 2 * time.Second
	ThreeSeconds = 3 * time.Second
	FiveSeconds  = 5 * time.Second
)

// =============================================================================
// WAIT
// =============================================================================

// Wait blocks for d or until ctx is done, whichever comes first.
// A non-positive d returns immediately unless ctx is already done.
func Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// =============================================================================
// PACER
// =============================================================================

// Pacer scales every narrative pause by a configured speed.
// The zero value is not usable; use NewPacer or Instant.
type Pacer struct {
	speed   float64
	instant bool
}

// NewPacer returns a pacer that divides every duration by speed.
// A non-positive speed is treated as 1.
func NewPacer(speed float64, instant bool) *Pacer {
	if speed <= 0 {
		speed = 1
	}
	return &Pacer{speed: speed, instant: instant}
}

// Instant returns a pacer that never waits. Tests and --instant runs use it.
func Instant() *Pacer {
	return &Pacer{speed: 1, instant: true}
}

// Scale returns d adjusted for the pacer's speed.
func (p *Pacer) Scale(d time.Duration) time.Duration {
	if p.instant || d <= 0 {
		return 0
	}
	return time.Duration(float64(d) / p.speed)
}

// Wait pauses for the scaled duration of d.
func (p *Pacer) Wait(ctx context.Context, d time.Duration) error {
	return Wait(ctx, p.Scale(d))
}
