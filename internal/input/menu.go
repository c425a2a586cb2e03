// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package input implements the numbered-choice menu the player answers
// with single key presses.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/timing"
	"github.com/jeranaias/tgl/internal/typewriter"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// Prompt is typed before every key wait.
const Prompt = "?? "

// ErrNoOptions is returned when Present is called with an empty list.
var ErrNoOptions = errors.New("menu has no options")

// Option is one numbered menu entry.
type Option struct {
	Label  string
	Choice string
}

// Menu shows options and reads the player's pick.
type Menu struct {
	renderer *typewriter.Renderer
	surface  terminal.Surface
	pacer    *timing.Pacer
	logger   *log.Logger
}

// NewMenu creates a menu that types through renderer and reads keys from
// surface. A nil logger discards log output.
func NewMenu(renderer *typewriter.Renderer, surface terminal.Surface, pacer *timing.Pacer, logger *log.Logger) *Menu {
	if pacer == nil {
		pacer = timing.NewPacer(1, false)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Menu{renderer: renderer, surface: surface, pacer: pacer, logger: logger}
}

// Present optionally lists opts as "1. label" lines, then prompts until the
// player presses the number of an existing option and returns its Choice.
// Anything else is echoed and answered with a fresh prompt.
func (m *Menu) Present(ctx context.Context, opts []Option, showOptions bool) (string, error) {
	if len(opts) == 0 {
		return "", ErrNoOptions
	}

	if showOptions {
		if err := m.list(ctx, opts); err != nil {
			return "", err
		}
	}

	for {
		m.renderer.SetStyle(styles.MenuStyle)
		err := m.renderer.Render(ctx, Prompt)
		m.renderer.ResetStyle()
		if err != nil {
			return "", err
		}

		key, err := m.readKey(ctx)
		if err != nil {
			return "", err
		}

		if err := m.renderer.RenderStyledLine(ctx, styles.AckStyle, key.Key); err != nil {
			return "", err
		}

		n, err := strconv.Atoi(strings.TrimSpace(key.Key))
		if err != nil || n < 1 || n > len(opts) {
			m.logger.Printf("MENU_INVALID | key=%q options=%d", key.Key, len(opts))
			continue
		}

		choice := opts[n-1].Choice
		m.logger.Printf("MENU_CHOICE | index=%d choice=%s", n, choice)
		return choice, nil
	}
}

func (m *Menu) list(ctx context.Context, opts []Option) error {
	m.renderer.SetStyle(styles.MenuStyle)
	defer m.renderer.ResetStyle()

	for i, opt := range opts {
		if err := m.renderer.RenderLine(ctx, fmt.Sprintf("%d. %s", i+1, opt.Label)); err != nil {
			return err
		}
		if err := m.pacer.Wait(ctx, timing.HalfSecond); err != nil {
			return err
		}
	}
	return nil
}

// readKey waits for exactly one key press. Presses made before the wait
// began are dropped on surfaces that buffer them.
func (m *Menu) readKey(ctx context.Context) (terminal.KeyEvent, error) {
	if d, ok := m.surface.(terminal.PendingDiscarder); ok {
		d.DiscardPending()
	}

	select {
	case <-ctx.Done():
		return terminal.KeyEvent{}, ctx.Err()
	case ev, ok := <-m.surface.Keys():
		if !ok {
			return terminal.KeyEvent{}, terminal.ErrInputClosed
		}
		return ev, nil
	}
}
