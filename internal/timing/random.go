// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package timing

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidRange is returned by RandomInt when from is greater than to.
var ErrInvalidRange = errors.New(`argument "from" must be less than or equal to "to"`)

// Source is the random source every narrative draw goes through.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source seeded from crypto/rand.
func NewSource() (*rand.Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return NewSeededSource(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])), nil
}

// NewSeededSource returns a deterministic source for replays and tests.
func NewSeededSource(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// RandomInt returns an integer in [from, to): from is inclusive, to is
// exclusive. When from == to the result is from.
func RandomInt(src Source, from, to int) (int, error) {
	if from > to {
		return 0, fmt.Errorf("%w (from=%d, to=%d)", ErrInvalidRange, from, to)
	}
	if from == to {
		return from, nil
	}
	return src.IntN(to-from) + from, nil
}

// Pick returns a uniformly chosen element of items.
// The second result is false, and no draw happens, when items is empty.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.IntN(len(items))], true
}

// =============================================================================
// SCRIPTED SOURCE
// =============================================================================

// SequenceSource replays a fixed list of draws. Each IntN call consumes the
// next value, reduced modulo n. Once the list is exhausted it keeps returning
// 0. Calls counts how many draws were made.
type SequenceSource struct {
	Values []int
	Calls  int
}

// IntN implements Source.
func (s *SequenceSource) IntN(n int) int {
	if n <= 0 {
		panic("timing: invalid argument to IntN")
	}
	idx := s.Calls
	s.Calls++
	if idx >= len(s.Values) {
		return 0
	}
	v := s.Values[idx] % n
	if v < 0 {
		v += n
	}
	return v
}
