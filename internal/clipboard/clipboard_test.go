// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCopier struct{ got []string }

func (r *recordingCopier) Copy(text string) { r.got = append(r.got, text) }

func TestSystem_WritesThroughPrimary(t *testing.T) {
	var written string
	fb := &recordingCopier{}
	s := &System{Fallback: fb, write: func(s string) error { written = s; return nil }}

	require.NoError(t, s.CopyText("note body"))
	assert.Equal(t, "note body", written)
	assert.Empty(t, fb.got)
}

func TestSystem_FallsBackOnFailure(t *testing.T) {
	fb := &recordingCopier{}
	s := &System{Fallback: fb, write: func(string) error { return errors.New("no xclip") }}

	err := s.CopyText("a")
	assert.ErrorIs(t, err, ErrUnconfirmed)
	assert.Equal(t, []string{"a"}, fb.got)
}

func TestSystem_UnsupportedUsesFallback(t *testing.T) {
	fb := &recordingCopier{}
	s := &System{Fallback: fb, unsupported: true}

	err := s.CopyText("b")
	assert.ErrorIs(t, err, ErrUnconfirmed)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, []string{"b"}, fb.got)
}

func TestSystem_UnsupportedWithoutFallback(t *testing.T) {
	called := false
	s := &System{unsupported: true, write: func(string) error { called = true; return nil }}

	err := s.CopyText("a")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called)
}

func TestFakes(t *testing.T) {
	var m Memory
	require.NoError(t, m.CopyText("one"))
	require.NoError(t, m.CopyText("two"))
	assert.Equal(t, []string{"one", "two"}, m.Copied())

	assert.ErrorIs(t, Failing{}.CopyText("x"), ErrUnavailable)
	boom := errors.New("boom")
	assert.ErrorIs(t, Failing{Err: boom}.CopyText("x"), boom)
}
