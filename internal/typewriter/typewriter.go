// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typewriter

import (
	"context"
	"time"

	"github.com/rivo/uniseg"
	"golang.org/x/time/rate"

	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// =============================================================================
// TICK SOURCE
// =============================================================================

// Ticker blocks until the next tick. *rate.Limiter satisfies it.
type Ticker interface {
	Wait(ctx context.Context) error
}

// TickerFactory returns a fresh ticker for one Render call.
type TickerFactory func(interval time.Duration) Ticker

// NewLimiter is the default TickerFactory. It returns a burst-1 limiter
// whose first token is already spent, so the first character appears one
// interval after the call. A non-positive interval never blocks.
func NewLimiter(interval time.Duration) Ticker {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}

// IdleTicks is the number of ticks skipped after unit is written.
func IdleTicks(unit string) int {
	switch unit {
	case ".", ",", "!", "?", ";", ":":
		return 3
	case " ", "-":
		return 2
	default:
		return 0
	}
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer types text onto a surface. It is not safe for concurrent use:
// each call must complete before the next starts.
type Renderer struct {
	surface   terminal.Surface
	palette   styles.Palette
	interval  time.Duration
	newTicker TickerFactory
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPalette sets the palette used by SetStyle and ResetStyle.
func WithPalette(p styles.Palette) Option {
	return func(r *Renderer) { r.palette = p }
}

// WithInterval sets the tick length. Zero types instantly.
func WithInterval(d time.Duration) Option {
	return func(r *Renderer) { r.interval = d }
}

// WithPacer sets the tick length to base scaled by p.
func WithPacer(p *timing.Pacer, base time.Duration) Option {
	return func(r *Renderer) { r.interval = p.Scale(base) }
}

// WithTickerFactory replaces the tick source.
func WithTickerFactory(f TickerFactory) Option {
	return func(r *Renderer) { r.newTicker = f }
}

// New creates a renderer for surface with a plain palette and the default
// 10ms tick.
func New(surface terminal.Surface, opts ...Option) *Renderer {
	r := &Renderer{
		surface:   surface,
		palette:   styles.Plain(),
		interval:  timing.TypeInterval,
		newTicker: NewLimiter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render types text. It returns once the last character has been
// acknowledged by the surface, or with ctx.Err() if ctx ends first.
// Empty text returns immediately without touching the surface.
func (r *Renderer) Render(ctx context.Context, text string) error {
	if text == "" {
		return ctx.Err()
	}

	units := split(text)
	ticker := r.newTicker(r.interval)
	flushed := make(chan struct{})

	idle := 0
	for i := 0; i < len(units); {
		if err := ticker.Wait(ctx); err != nil {
			return err
		}
		if idle > 0 {
			idle--
			continue
		}

		unit := units[i]
		i++
		if i == len(units) {
			r.surface.WriteFlushed(unit, func() { close(flushed) })
		} else {
			r.surface.Write(unit)
		}
		idle = IdleTicks(unit)
	}

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RenderLine types text followed by the line terminator.
func (r *Renderer) RenderLine(ctx context.Context, text string) error {
	return r.Render(ctx, text+terminal.EOL)
}

// SetStyle switches the surface to s. It writes immediately, outside the
// typing rhythm.
func (r *Renderer) SetStyle(s styles.Style) {
	if seq := r.palette.Sequence(s); seq != "" {
		r.surface.Write(seq)
	}
}

// ResetStyle restores the default style.
func (r *Renderer) ResetStyle() {
	r.SetStyle(styles.Default)
}

// RenderStyledLine types one line in style s and resets the style after.
func (r *Renderer) RenderStyledLine(ctx context.Context, s styles.Style, text string) error {
	r.SetStyle(s)
	err := r.RenderLine(ctx, text)
	r.ResetStyle()
	return err
}

func split(text string) []string {
	units := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		units = append(units, g.Str())
	}
	return units
}
