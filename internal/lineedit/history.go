package lineedit

import "github.com/zjrosen/ripline/internal/log"

// History is a read-only view of previously entered lines. Indexes are
// zero-based with the oldest entry at 0.
type History interface {
	// Get returns the entry at idx, or false if there is none.
	Get(idx int) (string, bool)
	// Last returns the index of the newest entry, or false when empty.
	Last() (int, bool)
}

// BasicHistory is an in-memory History.
type BasicHistory struct {
	entries []string
}

var _ History = (*BasicHistory)(nil)

// NewBasicHistory returns a history seeded with entries, oldest first.
func NewBasicHistory(entries ...string) *BasicHistory {
	h := &BasicHistory{}
	for _, e := range entries {
		h.Add(e)
	}
	return h
}

// Add appends line unless it is empty or repeats the newest entry.
func (h *BasicHistory) Add(line string) {
	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
}

func (h *BasicHistory) Get(idx int) (string, bool) {
	if idx < 0 || idx >= len(h.entries) {
		return "", false
	}
	return h.entries[idx], true
}

func (h *BasicHistory) Last() (int, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	return len(h.entries) - 1, true
}

// Len returns the number of entries.
func (h *BasicHistory) Len() int {
	return len(h.entries)
}

// historyNavigator tracks browsing position within a History for one session.
type historyNavigator struct {
	browsing   bool
	pos        int
	bottomLine string
}

func (n *historyNavigator) reset() {
	*n = historyNavigator{}
}

// previous returns the line to show for a step back in history, or false
// when nothing changes. Entering browse mode stashes current as the bottom line.
func (n *historyNavigator) previous(h History, current string) (string, bool) {
	if h == nil {
		return "", false
	}

	if n.browsing {
		prior := max(n.pos-1, 0)
		line, ok := h.Get(prior)
		if !ok {
			return "", false
		}
		n.pos = prior
		return line, true
	}

	last, ok := h.Last()
	if !ok {
		return "", false
	}
	line, ok := h.Get(last)
	if !ok {
		log.Warn(log.CatHistory, "history last index has no entry", "index", last)
		return "", false
	}
	n.browsing = true
	n.pos = last
	n.bottomLine = current
	return line, true
}

// next returns the line to show for a step forward. Stepping past the
// newest entry restores the bottom line and leaves browse mode.
func (n *historyNavigator) next(h History) (string, bool) {
	if !n.browsing {
		return "", false
	}

	if h != nil {
		if line, ok := h.Get(n.pos + 1); ok {
			n.pos++
			return line, true
		}
	}

	line := n.bottomLine
	n.reset()
	return line, true
}
