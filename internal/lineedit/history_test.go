package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBasicHistory(t *testing.T) {
	h := NewBasicHistory("ls", "ls", "", "pwd")
	require.Equal(t, 2, h.Len())

	last, ok := h.Last()
	require.True(t, ok)
	require.Equal(t, 1, last)

	line, ok := h.Get(0)
	require.True(t, ok)
	require.Equal(t, "ls", line)

	_, ok = h.Get(2)
	require.False(t, ok)
	_, ok = h.Get(-1)
	require.False(t, ok)

	h.Add("ls")
	require.Equal(t, 3, h.Len())
}

func TestBasicHistory_Empty(t *testing.T) {
	h := NewBasicHistory()
	_, ok := h.Last()
	require.False(t, ok)
}

func TestHistoryNavigator_EmptyHistoryIsNoop(t *testing.T) {
	var n historyNavigator
	_, ok := n.previous(NewBasicHistory(), "draft")
	require.False(t, ok)
	require.False(t, n.browsing)

	_, ok = n.next(NewBasicHistory())
	require.False(t, ok)

	_, ok = n.previous(nil, "draft")
	require.False(t, ok)
}

func TestHistoryNavigator_Browse(t *testing.T) {
	h := NewBasicHistory("one", "two", "three")
	var n historyNavigator

	line, ok := n.previous(h, "draft")
	require.True(t, ok)
	require.Equal(t, "three", line)

	line, _ = n.previous(h, line)
	require.Equal(t, "two", line)
	line, _ = n.previous(h, line)
	require.Equal(t, "one", line)

	// Saturates at the oldest entry.
	line, ok = n.previous(h, line)
	require.True(t, ok)
	require.Equal(t, "one", line)
	require.Equal(t, 0, n.pos)

	line, _ = n.next(h)
	require.Equal(t, "two", line)
	line, _ = n.next(h)
	require.Equal(t, "three", line)

	line, ok = n.next(h)
	require.True(t, ok)
	require.Equal(t, "draft", line)
	require.False(t, n.browsing)

	// Out of browse mode, next does nothing and previous starts over.
	_, ok = n.next(h)
	require.False(t, ok)
	line, _ = n.previous(h, "new draft")
	require.Equal(t, "three", line)
}

// inconsistentHistory claims an entry it cannot return.
type inconsistentHistory struct{}

func (inconsistentHistory) Get(int) (string, bool) { return "", false }
func (inconsistentHistory) Last() (int, bool)      { return 3, true }

func TestHistoryNavigator_InconsistentHistory(t *testing.T) {
	var n historyNavigator
	_, ok := n.previous(inconsistentHistory{}, "draft")
	require.False(t, ok)
	require.False(t, n.browsing)
}

func TestHistoryNavigator_Property_NextReturnsToDraft(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		entries := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 8).Draw(rt, "entries")
		h := &BasicHistory{entries: entries}
		draft := rapid.StringMatching(`[A-Z ]{0,6}`).Draw(rt, "draft")
		ups := rapid.IntRange(1, 12).Draw(rt, "ups")

		var n historyNavigator
		line := draft
		for i := 0; i < ups; i++ {
			if next, ok := n.previous(h, line); ok {
				line = next
			}
		}
		require.GreaterOrEqual(rt, n.pos, 0)
		if ups >= len(entries) {
			require.Equal(rt, 0, n.pos)
		}

		for i := 0; i <= len(entries); i++ {
			next, ok := n.next(h)
			if !ok {
				break
			}
			line = next
		}
		require.Equal(rt, draft, line)
		require.False(rt, n.browsing)
	})
}
