// Package host supplies the prompt styling, syntax highlighting, completion
// and history the line editor asks for.
package host

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/sahilm/fuzzy"

	"github.com/zjrosen/ripline/internal/config"
	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
)

// historyWordScan bounds how many recent history entries feed completion.
const historyWordScan = 200

// Host implements lineedit.Host from a ripline config. It is safe to
// reconfigure from another goroutine while a line is being read.
type Host struct {
	mu sync.RWMutex

	promptStyle tcell.Style
	lexer       chroma.Lexer
	style       *chroma.Style // nil disables highlighting
	words       []string
	fuzzy       bool

	history  lineedit.History
	fallback *lineedit.BasicHistory
}

var _ lineedit.Host = (*Host)(nil)

// New creates a Host. A nil history makes the host keep lines in memory.
func New(cfg config.Config, history lineedit.History) *Host {
	h := &Host{
		lexer:   chroma.Coalesce(lexerFor("bash")),
		history: history,
	}
	if history == nil {
		h.fallback = lineedit.NewBasicHistory()
		h.history = h.fallback
	}
	h.Configure(cfg)
	return h
}

func lexerFor(name string) chroma.Lexer {
	if l := lexers.Get(name); l != nil {
		return l
	}
	return lexers.Fallback
}

// Configure applies the theme and completion sections of cfg.
func (h *Host) Configure(cfg config.Config) {
	promptStyle := tcell.StyleDefault.Bold(true)
	if cfg.Theme.Prompt != "" {
		promptStyle = promptStyle.Foreground(tcell.GetColor(cfg.Theme.Prompt))
	}

	var style *chroma.Style
	if cfg.Theme.HighlightStyle != "" {
		style = styles.Get(cfg.Theme.HighlightStyle)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.promptStyle = promptStyle
	h.style = style
	h.words = append([]string(nil), cfg.Completion.Words...)
	h.fuzzy = cfg.Completion.Fuzzy

	log.Debug(log.CatConfig, "host configured",
		"highlight", cfg.Theme.HighlightStyle, "words", len(h.words), "fuzzy", h.fuzzy)
}

// AddHistory records line when the host keeps its own history. Persistent
// histories are written by their owner.
func (h *Host) AddHistory(line string) {
	if h.fallback != nil {
		h.fallback.Add(line)
	}
}

func (h *Host) RenderPrompt(prompt string) []lineedit.Span {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return []lineedit.Span{{Text: prompt, Style: h.promptStyle}}
}

func (h *Host) HighlightLine(line string, cursor int) ([]lineedit.Span, int) {
	cursor = clamp(line, cursor)
	col := lineedit.DisplayWidth(line[:cursor])

	h.mu.RLock()
	lexer, style := h.lexer, h.style
	h.mu.RUnlock()

	if style == nil || line == "" {
		return []lineedit.Span{lineedit.Plain(line)}, col
	}
	return highlight(lexer, style, line), col
}

func (h *Host) History() lineedit.History {
	return h.history
}

// Complete completes the word that ends at the cursor. Words starting with
// it are offered in sorted order; failing that, fuzzy matches best first.
func (h *Host) Complete(line string, cursor int) []lineedit.Candidate {
	cursor = clamp(line, cursor)
	start := wordStart(line, cursor)
	prefix := line[start:cursor]
	if prefix == "" {
		return nil
	}

	h.mu.RLock()
	pool := h.wordPool()
	useFuzzy := h.fuzzy
	h.mu.RUnlock()

	var matches []string
	for _, w := range pool {
		if w != prefix && strings.HasPrefix(w, prefix) {
			matches = append(matches, w)
		}
	}
	sort.Strings(matches)

	if len(matches) == 0 && useFuzzy {
		for _, m := range fuzzy.Find(prefix, pool) {
			if m.Str != prefix {
				matches = append(matches, m.Str)
			}
		}
	}

	log.Debug(log.CatComplete, "completion", "prefix", prefix, "candidates", len(matches))

	candidates := make([]lineedit.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, lineedit.Candidate{Start: start, End: cursor, Text: m})
	}
	return candidates
}

// wordPool returns configured words followed by words from recent history,
// without duplicates. Callers hold h.mu.
func (h *Host) wordPool() []string {
	seen := make(map[string]struct{})
	var pool []string
	add := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		pool = append(pool, w)
	}

	for _, w := range h.words {
		add(w)
	}

	if h.history == nil {
		return pool
	}
	last, ok := h.history.Last()
	if !ok {
		return pool
	}
	for i := last; i >= 0 && last-i < historyWordScan; i-- {
		entry, ok := h.history.Get(i)
		if !ok {
			continue
		}
		for _, w := range strings.Fields(entry) {
			add(w)
		}
	}
	return pool
}

// wordStart returns the byte offset where the whitespace-delimited word
// ending at cursor begins.
func wordStart(line string, cursor int) int {
	start := cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if unicode.IsSpace(r) {
			break
		}
		start -= size
	}
	return start
}

// clamp limits cursor to the line and moves it back onto a rune boundary.
func clamp(line string, cursor int) int {
	cursor = min(max(cursor, 0), len(line))
	for cursor > 0 && cursor < len(line) && !utf8.RuneStart(line[cursor]) {
		cursor--
	}
	return cursor
}
