package lineedit

import "github.com/gdamore/tcell/v2"

// Span is a run of text drawn with one style.
type Span struct {
	Text  string
	Style tcell.Style
}

// Plain returns an unstyled span.
func Plain(text string) Span {
	return Span{Text: text, Style: tcell.StyleDefault}
}

// Host customizes prompt rendering, highlighting, completion and history.
type Host interface {
	// RenderPrompt returns the spans used to draw prompt.
	RenderPrompt(prompt string) []Span
	// HighlightLine returns the styled line and the display column of the
	// cursor within it.
	HighlightLine(line string, cursor int) ([]Span, int)
	// Complete returns the candidates for the cursor position, or none.
	Complete(line string, cursor int) []Candidate
	// History returns the history to browse. It may be nil.
	History() History
}

// NopHost renders the prompt and line unstyled, offers no completions and
// keeps an in-memory history of its own.
type NopHost struct {
	history BasicHistory
}

var _ Host = (*NopHost)(nil)

func (h *NopHost) RenderPrompt(prompt string) []Span {
	return []Span{Plain(prompt)}
}

func (h *NopHost) HighlightLine(line string, cursor int) ([]Span, int) {
	cursor = clampOffset(line, cursor)
	return []Span{Plain(line)}, DisplayWidth(line[:cursor])
}

func (h *NopHost) Complete(string, int) []Candidate {
	return nil
}

func (h *NopHost) History() History {
	return &h.history
}

// AddHistory appends line to the host's history.
func (h *NopHost) AddHistory(line string) {
	h.history.Add(line)
}
