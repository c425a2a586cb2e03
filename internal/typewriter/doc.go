// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter renders text onto a terminal surface one character at
// a time.
//
// Characters are grapheme clusters, so combining marks and emoji sequences
// appear whole. Punctuation holds the pen for a few extra ticks to give the
// text a reading rhythm:
//
//	. , ! ? ; :   3 idle ticks
//	space -       2 idle ticks
//
// Render returns only after the surface has acknowledged the final
// character, so everything written afterwards lands after the typed text.
package typewriter
