// Package markdown renders markdown documents for terminal output.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes document margins so output lines up with other
// command output.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// Option configures a Renderer.
type Option func(*[]glamour.TermRendererOption)

// WithStyle selects a built-in glamour style such as "dark" or "notty"
// instead of detecting one from the terminal.
func WithStyle(name string) Option {
	return func(opts *[]glamour.TermRendererOption) {
		(*opts)[0] = glamour.WithStandardStyle(name)
	}
}

// New creates a renderer that wraps at width.
func New(width int, opts ...Option) (*Renderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	}
	for _, opt := range opts {
		opt(&ropts)
	}
	r, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
