// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notes holds the read-only note collection the player wanders
// through, and the author-adjacency rule used to move between notes.
//
// Collections are built ahead of time and loaded once at startup, from a
// JSON, YAML or legacy ".js" data file, or from the collection embedded in
// the binary. There is no live reload.
//
// # Traversal
//
// FindRelatedByAuthor scans the collection in order and returns the first
// note with the same author and a different identifier. Nothing is
// precomputed; every call is a linear scan.
package notes
