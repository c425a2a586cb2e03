// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/notes.yaml
var defaultNotes []byte

// ErrUnsupportedFormat is returned for note files with an unknown extension.
var ErrUnsupportedFormat = errors.New("notes: unsupported file format")

// UnmarshalYAML implements yaml.Unmarshaler so YAML files get the same
// "guid" fallback as JSON ones.
func (n *Note) UnmarshalYAML(value *yaml.Node) error {
	var raw rawNote
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*n = raw.note()
	return nil
}

// Default returns the collection compiled into the binary.
func Default() (*Collection, error) {
	list, err := ParseYAML(defaultNotes)
	if err != nil {
		return nil, fmt.Errorf("embedded notes: %w", err)
	}
	return NewCollection(list), nil
}

// Load reads a prebuilt note collection from path. The format follows the
// extension:
//
//   - .json: a JSON array of notes
//   - .yaml, .yml: a YAML sequence of notes
//   - .js: a script of the form "const notes = [...];" as emitted by the
//     original web build
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	var list []Note
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		list, err = ParseJSON(data)
	case ".yaml", ".yml":
		list, err = ParseYAML(data)
	case ".js":
		list, err = ParseScript(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return NewCollection(list), nil
}

// ParseJSON decodes a JSON array of notes.
func ParseJSON(data []byte) ([]Note, error) {
	var list []Note
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ParseYAML decodes a YAML sequence of notes.
func ParseYAML(data []byte) ([]Note, error) {
	var list []Note
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ParseScript extracts the JSON array from a "const notes = [...];" script.
func ParseScript(data []byte) ([]Note, error) {
	start := bytes.IndexByte(data, '[')
	end := bytes.LastIndexByte(data, ']')
	if start < 0 || end < start {
		return nil, errors.New("no note array found in script")
	}
	return ParseJSON(data[start : end+1])
}
