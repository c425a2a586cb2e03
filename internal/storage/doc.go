// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key/value persistence used for game state.
//
// Three backends implement [Store]:
//
//   - FileStore keeps every key in one JSON map file, rewritten atomically
//     with fsync on each Set.
//   - SQLiteStore keeps keys in a kv table through the pure Go
//     modernc.org/sqlite driver.
//   - MemoryStore keeps keys in process memory. Tests use it, and so does
//     the "memory" backend for throwaway sessions.
//
// Values are opaque strings. Callers decide the encoding.
//
// # Usage
//
//	store, err := storage.Open(storage.Options{Backend: storage.BackendFile, Path: path})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.Set(ctx, "tgl_game_state", blob); err != nil {
//	    return err
//	}
package storage
