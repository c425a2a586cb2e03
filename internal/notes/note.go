// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notes holds the read-only note collection the player wanders
// through, and the author-adjacency rule used to move between notes.
package notes

import (
	"encoding/json"
	"errors"

	"github.com/jeranaias/tgl/internal/timing"
)

// ErrEmptyCollection is returned when a collection has no notes to offer.
var ErrEmptyCollection = errors.New("notes: collection is empty")

// =============================================================================
// NOTE
// =============================================================================

// Meta is the front-matter metadata of a note.
type Meta struct {
	Author string   `json:"author" yaml:"author"`
	Hints  []string `json:"hints" yaml:"hints"`
}

// Note is one authored passage. Text is the content without front matter;
// Original is the untouched source, which is what the Copy action hands out.
type Note struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Original string `json:"original" yaml:"original"`
	Meta     Meta   `json:"meta" yaml:"meta"`
}

// rawNote accepts the legacy "guid" identifier key written by older builds
// of the note data.
type rawNote struct {
	ID       string `json:"id" yaml:"id"`
	GUID     string `json:"guid" yaml:"guid"`
	Text     string `json:"text" yaml:"text"`
	Original string `json:"original" yaml:"original"`
	Meta     Meta   `json:"meta" yaml:"meta"`
}

func (r rawNote) note() Note {
	id := r.ID
	if id == "" {
		id = r.GUID
	}
	return Note{ID: id, Text: r.Text, Original: r.Original, Meta: r.Meta}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw rawNote
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = raw.note()
	return nil
}

// HasHints reports whether the note carries at least one hint.
func (n Note) HasHints() bool {
	return len(n.Meta.Hints) > 0
}

// =============================================================================
// COLLECTION
// =============================================================================

// Collection is an ordered, immutable list of notes. Order matters: the
// author rule always picks the first match in storage order.
// Identifiers are expected to be unique; deduplication is the job of whatever
// built the data, so a collection never drops or merges notes itself.
type Collection struct {
	notes []Note
}

// NewCollection wraps notes. The slice is copied.
func NewCollection(notes []Note) *Collection {
	cp := make([]Note, len(notes))
	copy(cp, notes)
	return &Collection{notes: cp}
}

// Len returns the number of notes.
func (c *Collection) Len() int {
	return len(c.notes)
}

// All returns a copy of the notes in collection order.
func (c *Collection) All() []Note {
	cp := make([]Note, len(c.notes))
	copy(cp, c.notes)
	return cp
}

// At returns the note at index i.
func (c *Collection) At(i int) (Note, bool) {
	if i < 0 || i >= len(c.notes) {
		return Note{}, false
	}
	return c.notes[i], true
}

// ByID returns the first note with the given identifier.
func (c *Collection) ByID(id string) (Note, bool) {
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Random picks a note uniformly by index.
func (c *Collection) Random(src timing.Source) (Note, error) {
	n, ok := timing.Pick(src, c.notes)
	if !ok {
		return Note{}, ErrEmptyCollection
	}
	return n, nil
}

// FindRelatedByAuthor returns the first note, in collection order, written by
// the same author as current but with a different identifier. It never
// returns current itself. Prior visits are not taken into account, so two
// notes by one author simply point at each other.
func (c *Collection) FindRelatedByAuthor(current Note) (Note, bool) {
	for _, n := range c.notes {
		if n.Meta.Author == current.Meta.Author && n.ID != current.ID {
			return n, true
		}
	}
	return Note{}, false
}

// Authors returns the distinct authors in order of first appearance.
func (c *Collection) Authors() []string {
	seen := make(map[string]bool)
	var authors []string
	for _, n := range c.notes {
		if !seen[n.Meta.Author] {
			seen[n.Meta.Author] = true
			authors = append(authors, n.Meta.Author)
		}
	}
	return authors
}
