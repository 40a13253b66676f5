package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
)

// Screen is a full-screen lineedit.Transport backed by tcell. Edited lines
// and anything written through Write scroll upward from the bottom row
// like a terminal scrollback.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen

	started   bool
	suspended bool
	row, col  int
	// top and bottom bound the rows of the line being edited. Columns in
	// MoveToColumn are offsets from the start of top and wrap at the
	// screen width.
	top, bottom int

	pasting bool
	paste   strings.Builder
}

var (
	_ lineedit.Transport = (*Screen)(nil)
	_ io.Writer          = (*Screen)(nil)
)

// NewScreen creates a Screen on the controlling terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(s), nil
}

// NewScreenFrom wraps an existing tcell.Screen, which must not be initialized yet.
func NewScreenFrom(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

// EnterRawMode initializes the screen on first use and resumes it afterwards.
func (s *Screen) EnterRawMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		if err := s.screen.Init(); err != nil {
			return fmt.Errorf("failed to init screen: %w", err)
		}
		s.screen.EnablePaste()
		s.screen.Clear()
		s.started = true
		log.Debug(log.CatTerm, "screen initialized")
		return nil
	}

	if err := s.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	s.suspended = false
	return nil
}

// LeaveRawMode suspends the screen, returning the terminal to cooked mode.
func (s *Screen) LeaveRawMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.suspended {
		return nil
	}
	if err := s.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	s.suspended = true
	return nil
}

// PollInput blocks for the next key or paste. Paste contents arrive from
// tcell as individual key events between start and end markers and are
// joined into a single PasteEvent.
func (s *Screen) PollInput() (lineedit.InputEvent, error) {
	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil, io.EOF

		case *tcell.EventPaste:
			if ev.Start() {
				s.pasting = true
				s.paste.Reset()
				continue
			}
			s.pasting = false
			return lineedit.PasteEvent{Text: s.paste.String()}, nil

		case *tcell.EventKey:
			if s.pasting {
				appendPaste(&s.paste, ev)
				continue
			}
			if k, ok := translateKey(ev); ok {
				return k, nil
			}
			log.Debug(log.CatTerm, "untranslated key", "key", ev.Name())

		case *tcell.EventResize:
			s.mu.Lock()
			_, h := s.screen.Size()
			s.row = min(s.row, max(h-1, 0))
			s.top = min(s.top, s.row)
			s.bottom = max(min(s.bottom, h-1), s.row)
			s.mu.Unlock()
			s.screen.Sync()
		}
	}
}

func appendPaste(b *strings.Builder, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		b.WriteRune(ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		b.WriteByte('\n')
	case tcell.KeyTab:
		b.WriteByte('\t')
	}
}

func translateMods(m tcell.ModMask) lineedit.Modifiers {
	var out lineedit.Modifiers
	if m&tcell.ModShift != 0 {
		out |= lineedit.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= lineedit.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= lineedit.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= lineedit.ModSuper
	}
	return out
}

var specialKeys = map[tcell.Key]lineedit.KeyCode{
	tcell.KeyEnter:      lineedit.KeyEnter,
	tcell.KeyTab:        lineedit.KeyTab,
	tcell.KeyBackspace2: lineedit.KeyBackspace,
	tcell.KeyEsc:        lineedit.KeyEscape,
	tcell.KeyDelete:     lineedit.KeyDelete,
	tcell.KeyUp:         lineedit.KeyUp,
	tcell.KeyDown:       lineedit.KeyDown,
	tcell.KeyLeft:       lineedit.KeyLeft,
	tcell.KeyRight:      lineedit.KeyRight,
	tcell.KeyHome:       lineedit.KeyHome,
	tcell.KeyEnd:        lineedit.KeyEnd,
}

// translateKey converts a tcell key event. tcell reports control letters
// as KeyCtrlA..KeyCtrlZ; those that double as Enter, Tab and Backspace
// keep their named meaning unless ctrl was reported explicitly.
func translateKey(ev *tcell.EventKey) (lineedit.KeyEvent, bool) {
	mods := translateMods(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		return lineedit.Char(ev.Rune(), mods), true
	}
	if k == tcell.KeyBackspace && !mods.Has(lineedit.ModCtrl) {
		return lineedit.Key(lineedit.KeyBackspace, mods), true
	}
	if code, ok := specialKeys[k]; ok {
		return lineedit.Key(code, mods&^lineedit.ModCtrl), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return lineedit.Char(rune('a'+k-tcell.KeyCtrlA), mods|lineedit.ModCtrl), true
	}
	if k == tcell.KeyNUL {
		return lineedit.Char(' ', mods|lineedit.ModCtrl), true
	}
	return lineedit.KeyEvent{}, false
}

// Render draws changes on the current editing row.
func (s *Screen) Render(changes []lineedit.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range changes {
		switch c := c.(type) {
		case lineedit.MoveToColumn:
			s.moveTo(c.Col)
		case lineedit.ClearToEndOfScreen:
			s.clearBelow()
		case lineedit.ClearScreen:
			s.screen.Clear()
			s.row, s.col = 0, 0
			s.top, s.bottom = 0, 0
		case lineedit.ResetAttributes:
		case lineedit.Text:
			s.drawText(c.Span.Text, c.Span.Style)
		case lineedit.Newline:
			s.row = s.bottom
			s.newline()
			s.top, s.bottom = s.row, s.row
		default:
			return fmt.Errorf("unsupported change %T", c)
		}
	}
	return nil
}

// Flush presents the drawn content.
func (s *Screen) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.suspended {
		s.screen.Show()
	}
	return nil
}

// Write prints p as output rows above the next prompt.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		s.col = 0
		s.drawText(strings.TrimSuffix(line, "\r"), tcell.StyleDefault)
		s.newline()
	}
	s.top, s.bottom = s.row, s.row
	if s.started && !s.suspended {
		s.screen.Show()
	}
	return len(p), nil
}

// Close restores the terminal for good. Pending PollInput calls return io.EOF.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.screen.Fini()
		s.started = false
	}
	return nil
}

// moveTo places the cursor col cells past the start of the edited line,
// scrolling when the wrapped position falls below the last row.
func (s *Screen) moveTo(col int) {
	col = max(col, 0)
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		s.row, s.col = s.top, col
		return
	}
	row := s.top + col/w
	for row >= h {
		s.scroll()
		row--
	}
	s.row, s.col = row, col%w
	s.bottom = max(s.bottom, s.row)
	s.screen.ShowCursor(s.col, s.row)
}

func (s *Screen) clearBelow() {
	s.bottom = s.row
	w, h := s.screen.Size()
	for x := s.col; x < w; x++ {
		s.screen.SetContent(x, s.row, ' ', nil, tcell.StyleDefault)
	}
	for y := s.row + 1; y < h; y++ {
		for x := 0; x < w; x++ {
			s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

func (s *Screen) drawText(text string, style tcell.Style) {
	w, _ := s.screen.Size()
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		width := runewidth.StringWidth(cluster)
		if width == 0 {
			continue
		}
		if w > 0 && s.col+width > w {
			s.newline()
		}
		runes := []rune(cluster)
		s.screen.SetContent(s.col, s.row, runes[0], runes[1:], style)
		s.col += width
		s.bottom = max(s.bottom, s.row)
	}
}

// newline moves to the next row, scrolling everything up one row when
// already on the last.
func (s *Screen) newline() {
	s.col = 0
	_, h := s.screen.Size()
	if s.row+1 < h {
		s.row++
		return
	}
	s.scroll()
}

// scroll shifts every row up by one and blanks the last row. The edited
// line's bounds move up with the content.
func (s *Screen) scroll() {
	w, h := s.screen.Size()
	s.top = max(s.top-1, 0)
	s.bottom = max(s.bottom-1, 0)
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			mainc, combc, style, _ := s.screen.GetContent(x, y)
			s.screen.SetContent(x, y-1, mainc, combc, style)
		}
	}
	for x := 0; x < w; x++ {
		s.screen.SetContent(x, h-1, ' ', nil, tcell.StyleDefault)
	}
}
