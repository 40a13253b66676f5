package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompletionState_SingleCandidateCycles(t *testing.T) {
	s := newCompletionState("he", 2, []Candidate{{Start: 0, End: 2, Text: "hello"}})

	line, cursor := s.current()
	require.Equal(t, "hello", line)
	require.Equal(t, 5, cursor)

	s.next()
	line, cursor = s.current()
	require.Equal(t, "hello", line)
	require.Equal(t, 5, cursor)
}

func TestCompletionState_ReplacesMidLine(t *testing.T) {
	s := newCompletionState("git ch main", 6, []Candidate{
		{Start: 4, End: 6, Text: "checkout"},
		{Start: 4, End: 6, Text: "cherry-pick"},
	})

	line, cursor := s.current()
	require.Equal(t, "git checkout main", line)
	require.Equal(t, 12, cursor)

	s.next()
	line, cursor = s.current()
	require.Equal(t, "git cherry-pick main", line)
	require.Equal(t, 15, cursor)

	s.next()
	line, _ = s.current()
	require.Equal(t, "git checkout main", line)
}

func TestCompletionState_ClampsBadRanges(t *testing.T) {
	s := newCompletionState("ab", 2, []Candidate{{Start: 5, End: 1, Text: "xyz"}})

	line, cursor := s.current()
	require.Equal(t, "abxyz", line)
	require.GreaterOrEqual(t, cursor, 0)
	require.LessOrEqual(t, cursor, len(line))
}

func TestCompletionState_Property_CyclingIsPure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.StringMatching(`[a-z ]{0,12}`).Draw(rt, "line")
		cursor := rapid.IntRange(0, len(line)).Draw(rt, "cursor")
		n := rapid.IntRange(1, 5).Draw(rt, "n")

		candidates := make([]Candidate, n)
		for i := range candidates {
			start := rapid.IntRange(0, cursor).Draw(rt, "start")
			candidates[i] = Candidate{
				Start: start,
				End:   cursor,
				Text:  rapid.StringMatching(`[a-z]{0,8}`).Draw(rt, "text"),
			}
		}
		k := rapid.IntRange(0, 12).Draw(rt, "k")

		cycled := newCompletionState(line, cursor, candidates)
		for i := 0; i < k; i++ {
			cycled.next()
		}

		direct := newCompletionState(line, cursor, candidates)
		direct.index = k % n

		gotLine, gotCursor := cycled.current()
		wantLine, wantCursor := direct.current()
		require.Equal(rt, wantLine, gotLine)
		require.Equal(rt, wantCursor, gotCursor)

		c := candidates[k%n]
		require.Equal(rt, line[:c.Start]+c.Text+line[c.End:], gotLine)
		require.Equal(rt, cursor+len(c.Text)-(c.End-c.Start), gotCursor)
	})
}
