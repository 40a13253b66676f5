package lineedit

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MovementKind selects how a Movement computes its target.
type MovementKind int

const (
	MoveBackwardChar MovementKind = iota
	MoveForwardChar
	MoveBackwardWord
	MoveForwardWord
	MoveStartOfLine
	MoveEndOfLine
)

func (k MovementKind) String() string {
	switch k {
	case MoveBackwardChar:
		return "backward-char"
	case MoveForwardChar:
		return "forward-char"
	case MoveBackwardWord:
		return "backward-word"
	case MoveForwardWord:
		return "forward-word"
	case MoveStartOfLine:
		return "start-of-line"
	case MoveEndOfLine:
		return "end-of-line"
	default:
		return "unknown"
	}
}

// Movement describes a cursor motion. Count is the repeat count for the
// char and word kinds and is ignored by the line kinds.
type Movement struct {
	Kind  MovementKind
	Count int
}

func (m Movement) String() string {
	switch m.Kind {
	case MoveStartOfLine, MoveEndOfLine:
		return m.Kind.String()
	default:
		return fmt.Sprintf("%s(%d)", m.Kind, m.Count)
	}
}

// BackwardChar moves n grapheme clusters left.
func BackwardChar(n int) Movement { return Movement{Kind: MoveBackwardChar, Count: n} }

// ForwardChar moves n grapheme clusters right.
func ForwardChar(n int) Movement { return Movement{Kind: MoveForwardChar, Count: n} }

// BackwardWord moves to the start of the nth previous word.
func BackwardWord(n int) Movement { return Movement{Kind: MoveBackwardWord, Count: n} }

// ForwardWord moves to the start of the nth next word.
func ForwardWord(n int) Movement { return Movement{Kind: MoveForwardWord, Count: n} }

// StartOfLine moves to offset 0.
func StartOfLine() Movement { return Movement{Kind: MoveStartOfLine} }

// EndOfLine moves past the last byte of the line.
func EndOfLine() Movement { return Movement{Kind: MoveEndOfLine} }

// EvalMovement computes the byte offset a movement from cursor lands on.
// The result is always within [0, len(line)] and on a code point boundary.
//
// Char movements step grapheme clusters; word movements step Unicode scalars
// and use unicode.IsSpace as the word separator. The two can disagree around
// combining sequences: a word motion may land between a base character and
// its combining mark, where a char motion never would.
func EvalMovement(line string, cursor int, m Movement) int {
	cursor = clampOffset(line, cursor)

	switch m.Kind {
	case MoveBackwardChar:
		pos := cursor
		for i := 0; i < m.Count; i++ {
			prev, ok := prevGraphemeBoundary(line, pos)
			if !ok {
				break
			}
			pos = prev
		}
		return pos

	case MoveForwardChar:
		pos := cursor
		for i := 0; i < m.Count; i++ {
			next, ok := nextGraphemeBoundary(line, pos)
			if !ok {
				break
			}
			pos = next
		}
		return pos

	case MoveBackwardWord:
		return backwardWord(line, cursor, m.Count)

	case MoveForwardWord:
		return forwardWord(line, cursor, m.Count)

	case MoveStartOfLine:
		return 0

	case MoveEndOfLine:
		return len(line)

	default:
		return cursor
	}
}

type scalar struct {
	offset int
	r      rune
}

func scalars(line string) []scalar {
	out := make([]scalar, 0, utf8.RuneCountInString(line))
	for i, r := range line {
		out = append(out, scalar{offset: i, r: r})
	}
	return out
}

// scalarIndex returns the index of the scalar starting at cursor, or
// fallback when the cursor is at the end of the line.
func scalarIndex(chars []scalar, cursor, fallback int) int {
	for i, c := range chars {
		if c.offset == cursor {
			return i
		}
	}
	return fallback
}

// backwardWord finds the scalar following the nearest whitespace that lies
// at least two scalars behind the current one, so a cursor sitting just
// after a space still jumps over the word before it.
func backwardWord(line string, cursor, count int) int {
	chars := scalars(line)
	if len(chars) == 0 {
		return cursor
	}

	pos := scalarIndex(chars, cursor, len(chars)-1)
	for i := 0; i < count; i++ {
		if pos == 0 {
			break
		}
		found := 0
		for prev := pos - 2; prev >= 0; prev-- {
			if unicode.IsSpace(chars[prev].r) {
				found = prev + 1
				break
			}
		}
		pos = found
	}
	return chars[pos].offset
}

func forwardWord(line string, cursor, count int) int {
	chars := scalars(line)

	pos := scalarIndex(chars, cursor, len(chars))
	for i := 0; i < count; i++ {
		for pos < len(chars) && !unicode.IsSpace(chars[pos].r) {
			pos++
		}
		for pos < len(chars) && unicode.IsSpace(chars[pos].r) {
			pos++
		}
	}
	if pos < len(chars) {
		return chars[pos].offset
	}
	return len(line)
}
