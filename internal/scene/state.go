// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// =============================================================================
// STATES
// =============================================================================

// State is a scene of the story.
type State int

const (
	Door State = iota
	Greeting
	Room
	Exhausted
	Ending
	Done
)

// States lists every state in graph order.
var States = []State{Door, Greeting, Room, Exhausted, Ending, Done}

func (s State) String() string {
	switch s {
	case Door:
		return "door"
	case Greeting:
		return "greeting"
	case Room:
		return "room"
	case Exhausted:
		return "exhausted"
	case Ending:
		return "ending"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseState maps a state name back to its State.
func ParseState(name string) (State, error) {
	for _, s := range States {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scene %q", name)
}

// Transitions is the scene graph: the states each state may hand over to.
var Transitions = map[State][]State{
	Door:      {Greeting, Ending},
	Greeting:  {Room, Exhausted, Ending},
	Room:      {Exhausted, Ending},
	Exhausted: {Ending},
	Ending:    {Done},
	Done:      nil,
}

// CanStartAt reports whether a run may begin at s.
func CanStartAt(s State) bool {
	return s == Door || s == Greeting
}

var (
	ErrInvalidStart      = errors.New("scene: invalid start state")
	ErrIllegalTransition = errors.New("scene: illegal transition")
)

// =============================================================================
// MACHINE
// =============================================================================

// Handler narrates one state and returns the next.
type Handler func(ctx context.Context, rt *Runtime) (State, error)

// Machine drives a Runtime through the scene graph.
type Machine struct {
	rt       *Runtime
	handlers map[State]Handler
	trace    []State
}

// NewMachine creates a machine with the standard handlers.
func NewMachine(rt *Runtime) (*Machine, error) {
	if err := rt.validate(); err != nil {
		return nil, err
	}
	return &Machine{
		rt: rt,
		handlers: map[State]Handler{
			Door:      door,
			Greeting:  greeting,
			Room:      room,
			Exhausted: exhausted,
			Ending:    ending,
		},
	}, nil
}

// Run plays from start until Done. It returns early only on context
// cancellation or a surface, storage or input failure.
func (m *Machine) Run(ctx context.Context, start State) error {
	if !CanStartAt(start) {
		return fmt.Errorf("%w: %s", ErrInvalidStart, start)
	}

	m.rt.Logger.Printf("RUN_START | run=%s start=%s", m.rt.RunID, start)
	state := start
	for state != Done {
		m.trace = append(m.trace, state)
		handler := m.handlers[state]

		next, err := handler(ctx, m.rt)
		if err != nil {
			m.rt.Logger.Printf("RUN_ABORT | run=%s state=%s err=%v", m.rt.RunID, state, err)
			return fmt.Errorf("%s: %w", state, err)
		}
		if !slices.Contains(Transitions[state], next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, state, next)
		}

		m.rt.Logger.Printf("SCENE_TRANSITION | run=%s from=%s to=%s", m.rt.RunID, state, next)
		state = next
	}
	m.trace = append(m.trace, Done)
	m.rt.Logger.Printf("RUN_DONE | run=%s", m.rt.RunID)
	return nil
}

// Trace returns the states visited by the last Run, in order.
func (m *Machine) Trace() []State {
	return append([]State(nil), m.trace...)
}
