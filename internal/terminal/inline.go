package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
)

// Inline is a lineedit.Transport that edits in place on the current row of
// an ordinary terminal using ANSI escape sequences. Output scrolls with the
// terminal as usual, so it coexists with other programs' output.
type Inline struct {
	in  io.Reader
	out *bufio.Writer
	dec *decoder

	fd     int
	isTerm bool
	state  *term.State

	profile        termenv.Profile
	bracketedPaste bool
	styled         bool
}

var _ lineedit.Transport = (*Inline)(nil)

// InlineOption configures an Inline transport.
type InlineOption func(*Inline)

// WithProfile sets the color profile styles are downgraded to. By default
// the profile is detected from out and the environment.
func WithProfile(p termenv.Profile) InlineOption {
	return func(t *Inline) {
		t.profile = p
	}
}

// WithBracketedPaste toggles bracketed paste, which is on by default.
func WithBracketedPaste(on bool) InlineOption {
	return func(t *Inline) {
		t.bracketedPaste = on
	}
}

// NewInline creates an Inline transport reading keys from in and drawing to
// out. Raw mode is only toggled when in is a terminal.
func NewInline(in io.Reader, out io.Writer, opts ...InlineOption) *Inline {
	t := &Inline{
		in:             in,
		out:            bufio.NewWriter(out),
		dec:            newDecoder(in),
		profile:        termenv.NewOutput(out).EnvColorProfile(),
		bracketedPaste: true,
	}
	if f, ok := in.(interface{ Fd() uintptr }); ok {
		t.fd = int(f.Fd())
		t.isTerm = term.IsTerminal(t.fd)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewStdio creates an Inline transport on the process's stdin and stdout.
func NewStdio(opts ...InlineOption) *Inline {
	return NewInline(os.Stdin, os.Stdout, opts...)
}

// NewLineEditor returns an editor drawing inline on stdin and stdout.
func NewLineEditor(opts ...lineedit.Option) *lineedit.Editor {
	return lineedit.New(NewStdio(), opts...)
}

// EnterRawMode puts the input terminal in raw mode and enables bracketed paste.
func (t *Inline) EnterRawMode() error {
	if t.isTerm && t.state == nil {
		st, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("failed to make terminal raw: %w", err)
		}
		t.state = st
		log.Debug(log.CatTerm, "entered raw mode", "fd", t.fd)
	}
	if t.bracketedPaste {
		if _, err := t.out.WriteString(ansi.SetModeBracketedPaste); err != nil {
			return err
		}
	}
	return nil
}

// LeaveRawMode disables bracketed paste and restores the saved terminal state.
func (t *Inline) LeaveRawMode() error {
	if t.bracketedPaste {
		_, _ = t.out.WriteString(ansi.ResetModeBracketedPaste)
	}
	if err := t.out.Flush(); err != nil {
		return err
	}
	if t.state == nil {
		return nil
	}
	st := t.state
	t.state = nil
	if err := term.Restore(t.fd, st); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	log.Debug(log.CatTerm, "left raw mode", "fd", t.fd)
	return nil
}

// PollInput blocks for the next key or paste.
func (t *Inline) PollInput() (lineedit.InputEvent, error) {
	return t.dec.Next()
}

// Render writes changes as escape sequences. Nothing reaches the terminal
// until Flush.
func (t *Inline) Render(changes []lineedit.Change) error {
	for _, c := range changes {
		switch c := c.(type) {
		case lineedit.MoveToColumn:
			t.write(ansi.CursorHorizontalAbsolute(c.Col + 1))
		case lineedit.ClearToEndOfScreen:
			t.write(ansi.EraseScreenBelow)
		case lineedit.ClearScreen:
			t.write(ansi.EraseEntireScreen + ansi.CursorHomePosition)
		case lineedit.ResetAttributes:
			t.write(ansi.ResetStyle)
			t.styled = false
		case lineedit.Text:
			if t.styled {
				t.write(ansi.ResetStyle)
				t.styled = false
			}
			if seq := sgr(c.Span.Style, t.profile); seq != "" {
				t.write(seq)
				t.styled = true
			}
			t.write(c.Span.Text)
		case lineedit.Newline:
			t.write("\r\n")
		default:
			return fmt.Errorf("unsupported change %T", c)
		}
	}
	return nil
}

// Flush writes buffered output to the terminal.
func (t *Inline) Flush() error {
	return t.out.Flush()
}

// bufio.Writer keeps the first error and reports it from Flush.
func (t *Inline) write(s string) {
	_, _ = t.out.WriteString(s)
}
