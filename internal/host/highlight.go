package host

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/gdamore/tcell/v2"

	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
)

// highlight tokenises line and styles each token. The lexer may append a
// newline or rewrite line endings, so token text is clipped to the line and
// the result falls back to one plain span if it no longer spells the line.
func highlight(lexer chroma.Lexer, style *chroma.Style, line string) []lineedit.Span {
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		log.Debug(log.CatEditor, "tokenise failed", "error", err)
		return []lineedit.Span{lineedit.Plain(line)}
	}

	var spans []lineedit.Span
	var b strings.Builder
	for _, token := range iterator.Tokens() {
		text := token.Value
		if remaining := len(line) - b.Len(); len(text) > remaining {
			text = text[:remaining]
		}
		if text == "" {
			continue
		}
		b.WriteString(text)

		st := tokenStyle(style.Get(token.Type))
		if n := len(spans); n > 0 && spans[n-1].Style == st {
			spans[n-1].Text += text
			continue
		}
		spans = append(spans, lineedit.Span{Text: text, Style: st})
	}

	if b.String() != line {
		return []lineedit.Span{lineedit.Plain(line)}
	}
	return spans
}

// tokenStyle keeps the terminal background and takes foreground and
// attributes from entry.
func tokenStyle(entry chroma.StyleEntry) tcell.Style {
	st := tcell.StyleDefault.Foreground(chromaToTcell(entry.Colour))
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func chromaToTcell(c chroma.Colour) tcell.Color {
	if !c.IsSet() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
