// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/tgl/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps all keys in a single JSON object on disk.
//
// The file is read on every Get so that edits made by another process (or
// by `tgl session reset`) are seen. Every Set rewrites the whole file.
type FileStore struct {
	// Path is the JSON file location.
	Path string

	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a file store at path, or at the default location
// when path is empty. The file itself is created on first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath(BackendFile)
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{Path: path}, nil
}

// Get returns the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}

	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the file. A file that does not
// parse is replaced by a fresh map holding only key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	data, err := s.read()
	switch {
	case errors.Is(err, ErrCorrupt):
		data = make(map[string]string)
	case err != nil:
		return err
	}
	data[key] = value
	return s.write(data)
}

// Delete removes key and rewrites the file.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return ErrNotFound
	}
	delete(data, key)
	return s.write(data)
}

// Close marks the store closed. There is no open handle to release.
func (s *FileStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// read loads the map. A missing file is an empty map; one that is not a
// JSON object of strings returns ErrCorrupt.
func (s *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, s.Path, err)
	}
	return data, nil
}

func (s *FileStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	// Atomic write with fsync so a crash never leaves a half-written state file.
	if err := util.AtomicWriteFile(s.Path, raw, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}
