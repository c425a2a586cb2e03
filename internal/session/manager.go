// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/jeranaias/tgl/internal/storage"
	"github.com/jeranaias/tgl/internal/timing"
)

// =============================================================================
// STATE
// =============================================================================

// DefaultKey is the storage key the session blob lives under.
const DefaultKey = "tgl_game_state"

// Default action budget range, min inclusive and max exclusive.
const (
	DefaultMinActions = 5
	DefaultMaxActions = 10
)

// Names is the vocabulary new players are addressed by.
var Names = []string{
	"@", "human", "humanoid", "reader", "operator",
	"dear", "darling", "child", "adventurer", "traveler",
}

var (
	// ErrCorrupt wraps decode and schema failures of a persisted blob.
	ErrCorrupt = errors.New("corrupt session state")

	// ErrNotLoaded is returned by operations that need LoadOrCreate first.
	ErrNotLoaded = errors.New("session not loaded")
)

// State is the persisted session blob.
type State struct {
	ActionCounter int    `json:"actionCounter"`
	PlayerName    string `json:"playerName"`

	// BreadCrumbs is kept for compatibility with existing saves.
	// Nothing populates or reads it.
	BreadCrumbs []string `json:"breadCrumbs"`
}

func (s State) clone() State {
	out := s
	out.BreadCrumbs = append([]string{}, s.BreadCrumbs...)
	return out
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Config holds configuration for the session manager.
type Config struct {
	// Key is the storage key (default: DefaultKey)
	Key string

	// MinActions and MaxActions bound the budget of a new session,
	// drawn from [MinActions, MaxActions).
	MinActions int
	MaxActions int

	// Rand draws the name and budget of new sessions. Required.
	Rand timing.Source

	// Logger receives SESSION_* events. Nil discards them.
	Logger *log.Logger
}

// Manager owns the in-memory session and keeps the store in step with it.
type Manager struct {
	mu sync.Mutex

	store     storage.Store
	key       string
	rng       timing.Source
	minBudget int
	maxBudget int
	logger    *log.Logger
	validator *validator

	state  State
	loaded bool
}

// NewManager creates a manager backed by store.
func NewManager(store storage.Store, cfg Config) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session: store cannot be nil")
	}
	if cfg.Rand == nil {
		return nil, errors.New("session: random source cannot be nil")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.MinActions == 0 && cfg.MaxActions == 0 {
		cfg.MinActions = DefaultMinActions
		cfg.MaxActions = DefaultMaxActions
	}
	if cfg.MinActions < 0 || cfg.MinActions > cfg.MaxActions {
		return nil, fmt.Errorf("session: invalid action range [%d, %d)", cfg.MinActions, cfg.MaxActions)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	v, err := newValidator()
	if err != nil {
		return nil, err
	}

	return &Manager{
		store:     store,
		key:       cfg.Key,
		rng:       cfg.Rand,
		minBudget: cfg.MinActions,
		maxBudget: cfg.MaxActions,
		logger:    cfg.Logger,
		validator: v,
	}, nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// LoadOrCreate loads the persisted session, or creates a new one when none
// exists or the stored one is corrupt. The result is persisted either way.
func (m *Manager) LoadOrCreate(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, found, err := m.read(ctx)
	switch {
	case errors.Is(err, ErrCorrupt):
		m.logger.Printf("SESSION_CORRUPT | key=%s err=%v", m.key, err)
		found = false
	case err != nil:
		return State{}, err
	}

	if found {
		m.logger.Printf("SESSION_LOADED | key=%s name=%q actions=%d", m.key, st.PlayerName, st.ActionCounter)
	} else {
		st, err = m.create()
		if err != nil {
			return State{}, err
		}
		m.logger.Printf("SESSION_CREATED | key=%s name=%q actions=%d", m.key, st.PlayerName, st.ActionCounter)
	}

	m.state = st
	m.loaded = true
	if err := m.persistLocked(ctx); err != nil {
		return State{}, err
	}
	return m.state.clone(), nil
}

// Persist overwrites the stored blob with the in-memory session.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return ErrNotLoaded
	}
	return m.persistLocked(ctx)
}

// ConsumeOneAction decrements the budget by one, never below zero, persists
// and returns the remaining budget.
func (m *Manager) ConsumeOneAction(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return 0, ErrNotLoaded
	}

	m.state.ActionCounter--
	if m.state.ActionCounter < 0 {
		m.state.ActionCounter = 0
	}
	if err := m.persistLocked(ctx); err != nil {
		return m.state.ActionCounter, err
	}
	m.logger.Printf("SESSION_ACTION | key=%s remaining=%d", m.key, m.state.ActionCounter)
	return m.state.ActionCounter, nil
}

// State returns a copy of the in-memory session.
func (m *Manager) State() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone(), m.loaded
}

// =============================================================================
// INSPECTION
// =============================================================================

// Peek reads the stored session without creating or persisting anything.
// found is false when nothing is stored. A corrupt blob returns ErrCorrupt.
func (m *Manager) Peek(ctx context.Context) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read(ctx)
}

// Reset deletes the stored session. The next LoadOrCreate starts fresh.
// Unreadable store data is overwritten before the key is removed.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.Delete(ctx, m.key)
	if errors.Is(err, storage.ErrCorrupt) {
		m.logger.Printf("SESSION_CORRUPT | key=%s err=%v", m.key, err)
		err = m.overwrite(ctx)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("reset session: %w", err)
	}
	m.state = State{}
	m.loaded = false
	m.logger.Printf("SESSION_RESET | key=%s", m.key)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Manager) read(ctx context.Context) (State, bool, error) {
	blob, ok, err := m.store.Get(ctx, m.key)
	if errors.Is(err, storage.ErrCorrupt) {
		return State{}, true, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err != nil {
		return State{}, false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return State{}, false, nil
	}

	st, err := m.decode([]byte(blob))
	if err != nil {
		return State{}, true, err
	}
	return st, true, nil
}

func (m *Manager) decode(blob []byte) (State, error) {
	if !json.Valid(blob) {
		return State{}, fmt.Errorf("%w: not JSON", ErrCorrupt)
	}
	if err := m.validator.check(blob); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if st.BreadCrumbs == nil {
		st.BreadCrumbs = []string{}
	}
	return st, nil
}

// overwrite replaces unreadable store data with a map that no longer holds
// the session key.
func (m *Manager) overwrite(ctx context.Context) error {
	if err := m.store.Set(ctx, m.key, ""); err != nil {
		return err
	}
	return m.store.Delete(ctx, m.key)
}

func (m *Manager) create() (State, error) {
	name, ok := timing.Pick(m.rng, Names)
	if !ok {
		return State{}, errors.New("session: empty name vocabulary")
	}
	budget, err := timing.RandomInt(m.rng, m.minBudget, m.maxBudget)
	if err != nil {
		return State{}, fmt.Errorf("session: draw budget: %w", err)
	}
	return State{
		ActionCounter: budget,
		PlayerName:    name,
		BreadCrumbs:   []string{},
	}, nil
}

func (m *Manager) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(m.state)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, m.key, string(blob)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
