// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the persisted player state.
//
// A session holds the player's remaining action budget and the name the
// game addresses them by. It is stored as a single JSON blob under one
// fixed key in a [storage.Store] and survives across runs.
//
// # Key Types
//
//   - State: the persisted blob
//   - Manager: load-or-create, persist and budget accounting
//
// # Usage
//
//	mgr, err := session.NewManager(store, session.Config{Rand: rng})
//	if err != nil {
//	    return err
//	}
//	st, err := mgr.LoadOrCreate(ctx)
//	...
//	remaining, err := mgr.ConsumeOneAction(ctx)
//
// # Corruption
//
// A blob that is not valid JSON, or that does not satisfy the CUE schema
// in schema.go, is logged and replaced by a freshly created session.
package session
