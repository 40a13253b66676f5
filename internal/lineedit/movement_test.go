package lineedit

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEvalMovement(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		cursor int
		move   Movement
		want   int
	}{
		{"backward char at start stays", "abc", 0, BackwardChar(1), 0},
		{"backward char", "abc", 2, BackwardChar(1), 1},
		{"backward char stops early", "abc", 2, BackwardChar(5), 0},
		{"forward char", "abc", 0, ForwardChar(1), 1},
		{"forward char at end stays", "abc", 3, ForwardChar(1), 3},
		{"forward char stops early", "abc", 1, ForwardChar(9), 3},
		{"zero count", "abc", 1, ForwardChar(0), 1},
		{"forward over combining mark", "e\u0301x", 0, ForwardChar(1), 3},
		{"backward over combining mark", "xe\u0301", 4, BackwardChar(1), 1},
		{"forward over emoji", "😀a", 0, ForwardChar(1), 4},
		{"forward over zwj family", "👨‍👩‍👧!", 0, ForwardChar(1), 18},
		{"forward over flag", "🇺🇸🇬🇧", 0, ForwardChar(1), 8},
		{"backward over flag pair", "🇺🇸🇬🇧", 16, BackwardChar(1), 8},
		{"forward over cjk", "日本", 0, ForwardChar(1), 3},

		{"backward word from end", "hello world", 11, BackwardWord(1), 6},
		{"backward word from word start", "hello world", 6, BackwardWord(1), 0},
		{"backward word twice", "one two three", 13, BackwardWord(2), 4},
		{"backward word at start", "hello", 0, BackwardWord(1), 0},
		{"backward word empty line", "", 0, BackwardWord(1), 0},
		{"backward word mid word", "foo barbaz", 8, BackwardWord(1), 4},
		{"backward word trailing space", "foo ", 4, BackwardWord(1), 0},

		{"forward word", "hello world", 0, ForwardWord(1), 6},
		{"forward word last word", "hello world", 6, ForwardWord(1), 11},
		{"forward word from space", "a  b", 1, ForwardWord(1), 3},
		{"forward word at end", "hello", 5, ForwardWord(1), 5},
		{"forward word twice", "a b c", 0, ForwardWord(2), 4},
		{"forward word empty line", "", 0, ForwardWord(1), 0},
		{"forward word unicode space", "a\u3000b", 0, ForwardWord(1), 4},

		{"start of line", "hello", 3, StartOfLine(), 0},
		{"end of line", "hello", 1, EndOfLine(), 5},
		{"end of empty line", "", 0, EndOfLine(), 0},

		{"cursor past end clamps", "abc", 10, BackwardChar(1), 2},
		{"negative cursor clamps", "abc", -4, ForwardChar(1), 1},
		{"mid code point snaps down", "\u00e9", 1, ForwardChar(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EvalMovement(tt.line, tt.cursor, tt.move))
		})
	}
}

// Word movement counts scalars, so it can stop inside a grapheme that char
// movement treats as indivisible.
func TestEvalMovement_WordMovementIgnoresGraphemes(t *testing.T) {
	// " \u0301" is one grapheme: a space carrying a combining mark.
	line := "a \u0301b"
	require.Equal(t, []int{0, 1, 4, 5}, graphemeBoundaries(line))

	got := EvalMovement(line, 0, ForwardWord(1))
	require.Equal(t, 2, got)
	require.NotContains(t, graphemeBoundaries(line), got)

	require.Equal(t, 4, EvalMovement(line, got, ForwardChar(1)))
	require.Equal(t, 1, EvalMovement(line, got, BackwardChar(1)))
}

func TestMovementString(t *testing.T) {
	require.Equal(t, "backward-word(2)", BackwardWord(2).String())
	require.Equal(t, "end-of-line", EndOfLine().String())
}

// lineGen draws lines mixing ASCII, spaces, combining marks, wide runes and emoji.
func lineGen() *rapid.Generator[string] {
	pieces := []string{"a", "b", "Z", " ", "\t", "e\u0301", "\u0301", "日", "😀", "👍🏽", "🇯🇵", "\u3000", "-"}
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.SampledFrom(pieces), 0, 12).Draw(t, "parts")
		s := ""
		for _, p := range parts {
			s += p
		}
		return s
	})
}

func TestEvalMovement_Property_InRangeOnBoundary(t *testing.T) {
	kinds := []MovementKind{MoveBackwardChar, MoveForwardChar, MoveBackwardWord, MoveForwardWord, MoveStartOfLine, MoveEndOfLine}
	rapid.Check(t, func(rt *rapid.T) {
		line := lineGen().Draw(rt, "line")
		cursor := rapid.IntRange(-3, len(line)+3).Draw(rt, "cursor")
		m := Movement{
			Kind:  rapid.SampledFrom(kinds).Draw(rt, "kind"),
			Count: rapid.IntRange(0, 5).Draw(rt, "count"),
		}

		got := EvalMovement(line, cursor, m)
		require.GreaterOrEqual(rt, got, 0)
		require.LessOrEqual(rt, got, len(line))
		if got < len(line) {
			require.True(rt, utf8.RuneStart(line[got]), "offset %d splits a code point in %q", got, line)
		}
	})
}

func TestEvalMovement_Property_CharRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := lineGen().Draw(rt, "line")
		bounds := graphemeBoundaries(line)
		cursor := rapid.SampledFrom(bounds).Draw(rt, "cursor")

		fwd := EvalMovement(line, cursor, ForwardChar(1))
		if fwd != cursor {
			require.Equal(rt, cursor, EvalMovement(line, fwd, BackwardChar(1)))
		} else {
			require.Equal(rt, len(line), cursor)
		}

		back := EvalMovement(line, cursor, BackwardChar(1))
		if back != cursor {
			require.Equal(rt, cursor, EvalMovement(line, back, ForwardChar(1)))
		} else {
			require.Equal(rt, 0, cursor)
		}
	})
}

func TestEvalMovement_Property_LineEnds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := lineGen().Draw(rt, "line")
		cursor := rapid.IntRange(0, len(line)).Draw(rt, "cursor")
		require.Equal(rt, len(line), EvalMovement(line, cursor, EndOfLine()))
		require.Equal(rt, 0, EvalMovement(line, cursor, StartOfLine()))
	})
}
