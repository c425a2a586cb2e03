// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across tgl packages.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync, used by the file
//     storage backend and the JSON config writer
//   - TruncateRunes: UTF-8 safe truncation for log lines
//   - SplitLines: line splitting that tolerates CRLF note files
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	for _, line := range util.SplitLines(note.Text) { ... }
package util
