// Package lineedit implements an interactive single-line editor for raw
// terminals: emacs-style movement and killing, history recall and tab
// completion cycling, redrawn after every keystroke.
//
// The editor owns the line, the cursor and the session state. Everything
// that touches the outside world goes through two interfaces: a Transport
// for the terminal and a Host for prompt styling, highlighting, completion
// candidates and history.
//
//	ed := lineedit.New(transport)
//	host := &lineedit.NopHost{}
//	for {
//		line, ok, err := ed.ReadLine(host)
//		if errors.Is(err, lineedit.ErrEndOfFile) {
//			break
//		}
//		...
//	}
package lineedit

import (
	"errors"
	"io"

	"github.com/zjrosen/ripline/internal/log"
)

// DefaultPrompt is the prompt used until SetPrompt is called.
const DefaultPrompt = "> "

// Editor reads lines from a Transport. It is not safe for concurrent use.
type Editor struct {
	transport  Transport
	keys       KeyMap
	prompt     string
	buf        lineBuffer
	completion *completionState
	history    historyNavigator
}

// Option configures an Editor.
type Option func(*Editor)

// WithKeyMap replaces the default keybindings.
func WithKeyMap(k KeyMap) Option {
	return func(e *Editor) { e.keys = k }
}

// WithPrompt sets the initial prompt.
func WithPrompt(prompt string) Option {
	return func(e *Editor) { e.prompt = prompt }
}

// New returns an editor driving t.
func New(t Transport, opts ...Option) *Editor {
	e := &Editor{
		transport: t,
		keys:      DefaultKeyMap(),
		prompt:    DefaultPrompt,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPrompt changes the prompt shown by subsequent renders.
func (e *Editor) SetPrompt(prompt string) {
	e.prompt = prompt
}

// Prompt returns the current prompt.
func (e *Editor) Prompt() string {
	return e.prompt
}

// KeyMap returns the active keybindings.
func (e *Editor) KeyMap() KeyMap {
	return e.keys
}

// ReadLine runs one editing session and blocks until it ends. It returns
// the accepted line with ok set, ok unset with a nil error when the line
// was cancelled, ErrEndOfFile when input ended, or a *TransportError.
// The terminal is returned to cooked mode and the cursor moved to a fresh
// row whatever the outcome. A nil host behaves like a NopHost.
func (e *Editor) ReadLine(host Host) (line string, ok bool, err error) {
	if host == nil {
		host = &NopHost{}
	}

	if err := e.transport.EnterRawMode(); err != nil {
		return "", false, transportErr("enter raw mode", err)
	}
	log.Debug(log.CatEditor, "session started", "prompt", e.prompt)

	line, ok, err = e.readLine(host)

	if leaveErr := e.transport.LeaveRawMode(); leaveErr != nil && err == nil {
		err = transportErr("leave raw mode", leaveErr)
	}
	if renderErr := e.transport.Render([]Change{Newline{}}); renderErr != nil && err == nil {
		err = transportErr("render", renderErr)
	}
	if flushErr := e.transport.Flush(); flushErr != nil && err == nil {
		err = transportErr("flush", flushErr)
	}

	if err != nil {
		if !errors.Is(err, ErrEndOfFile) {
			log.ErrorErr(log.CatEditor, "session failed", err)
		}
		return "", false, err
	}
	log.Debug(log.CatEditor, "session ended", "accepted", ok, "bytes", len(line))
	return line, ok, nil
}

func (e *Editor) readLine(host Host) (string, bool, error) {
	e.buf.reset()
	e.history.reset()
	e.completion = nil

	if err := e.render(host, false); err != nil {
		return "", false, err
	}

	for {
		ev, err := e.transport.PollInput()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", false, ErrEndOfFile
			}
			return "", false, transportErr("poll input", err)
		}

		action, bound := e.keys.Resolve(ev)
		if !bound {
			log.Debug(log.CatEditor, "unbound input", "event", ev)
		}

		repaint := false
		switch a := action.(type) {
		case Cancel:
			return "", false, nil
		case AcceptLine:
			return e.buf.line, true, nil
		case EndOfFile:
			return "", false, ErrEndOfFile
		case Complete:
			e.complete(host)
		case nil:
		default:
			e.completion = nil
			repaint = e.apply(host, a)
		}

		if err := e.render(host, repaint); err != nil {
			return "", false, err
		}
	}
}

// apply performs an editing action and reports whether the screen must be
// cleared before the next render.
func (e *Editor) apply(host Host, action Action) bool {
	switch a := action.(type) {
	case Kill:
		e.buf.kill(a.Movement)
	case Move:
		e.buf.move(a.Movement)
	case InsertChar:
		e.buf.insertChar(a.Count, a.Char)
	case InsertText:
		e.buf.insertText(a.Count, a.Text)
	case Repaint:
		return true
	case HistoryPrevious:
		if line, ok := e.history.previous(host.History(), e.buf.line); ok {
			e.buf.setLine(line)
		}
	case HistoryNext:
		if line, ok := e.history.next(host.History()); ok {
			e.buf.setLine(line)
		}
	}
	return false
}

// complete starts a completion cycle, or advances an active one.
func (e *Editor) complete(host Host) {
	if e.completion == nil {
		candidates := host.Complete(e.buf.line, e.buf.cursor)
		if len(candidates) == 0 {
			return
		}
		log.Debug(log.CatComplete, "completion started", "candidates", len(candidates))
		e.completion = newCompletionState(e.buf.line, e.buf.cursor, candidates)
	} else {
		e.completion.next()
	}
	e.buf.line, e.buf.cursor = e.completion.current()
}
