package lineedit

// Units of measure used by the editor:
//
//  1. Bytes: the cursor is a byte offset into the line and always sits on a
//     code point boundary.
//  2. Graphemes: character movement and single character edits step over
//     extended grapheme clusters, so "e" plus a combining accent moves as one.
//  3. Display columns: the render step converts byte offsets to terminal
//     cells with runewidth (CJK and most emoji are two cells).
//
// Word movement deliberately works on Unicode scalars rather than
// graphemes; see EvalMovement.

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// graphemeBoundaries returns the byte offsets of every grapheme cluster
// boundary in s, including 0 and len(s).
func graphemeBoundaries(s string) []int {
	bounds := make([]int, 1, len(s)+1)
	offset := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		offset += len(cluster)
		bounds = append(bounds, offset)
	}
	return bounds
}

// nextGraphemeBoundary returns the first boundary strictly after pos.
func nextGraphemeBoundary(s string, pos int) (int, bool) {
	if pos >= len(s) {
		return 0, false
	}
	for _, b := range graphemeBoundaries(s) {
		if b > pos {
			return b, true
		}
	}
	return 0, false
}

// prevGraphemeBoundary returns the last boundary strictly before pos.
func prevGraphemeBoundary(s string, pos int) (int, bool) {
	if pos <= 0 {
		return 0, false
	}
	bounds := graphemeBoundaries(s)
	for i := len(bounds) - 1; i >= 0; i-- {
		if bounds[i] < pos {
			return bounds[i], true
		}
	}
	return 0, false
}

// clampOffset forces pos into [0, len(s)] and onto a code point boundary,
// snapping down when it lands inside a multi-byte sequence.
func clampOffset(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(s) {
		return len(s)
	}
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}
