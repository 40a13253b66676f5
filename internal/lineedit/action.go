package lineedit

import "github.com/charmbracelet/bubbles/key"

// Action is an editing command resolved from one input event.
type Action interface {
	isAction()
}

type (
	// Cancel abandons the line.
	Cancel struct{}
	// AcceptLine returns the current line.
	AcceptLine struct{}
	// EndOfFile ends input.
	EndOfFile struct{}
	// Kill deletes the text between the cursor and the movement target.
	Kill struct{ Movement Movement }
	// Move moves the cursor.
	Move struct{ Movement Movement }
	// InsertChar inserts Char Count times.
	InsertChar struct {
		Count int
		Char  rune
	}
	// InsertText inserts Text Count times.
	InsertText struct {
		Count int
		Text  string
	}
	// Repaint clears the screen before the next render.
	Repaint struct{}
	// HistoryPrevious recalls an older history entry.
	HistoryPrevious struct{}
	// HistoryNext recalls a newer history entry.
	HistoryNext struct{}
	// Complete starts or cycles tab completion.
	Complete struct{}
)

func (Cancel) isAction()          {}
func (AcceptLine) isAction()      {}
func (EndOfFile) isAction()       {}
func (Kill) isAction()            {}
func (Move) isAction()            {}
func (InsertChar) isAction()      {}
func (InsertText) isAction()      {}
func (Repaint) isAction()         {}
func (HistoryPrevious) isAction() {}
func (HistoryNext) isAction()     {}
func (Complete) isAction()        {}

// Resolve maps an input event to an action. The lookup is ordered and the
// first matching rule wins. It returns false for events with no binding.
func (k KeyMap) Resolve(ev InputEvent) (Action, bool) {
	switch ev := ev.(type) {
	case PasteEvent:
		return InsertText{Count: 1, Text: ev.Text}, true
	case KeyEvent:
		return k.resolveKey(ev)
	default:
		return nil, false
	}
}

func (k KeyMap) resolveKey(ev KeyEvent) (Action, bool) {
	rules := []struct {
		binding key.Binding
		action  Action
	}{
		{k.Cancel, Cancel{}},
		{k.EndOfFile, EndOfFile{}},
		{k.Complete, Complete{}},
		{k.AcceptLine, AcceptLine{}},
		{k.BackwardDeleteChar, Kill{BackwardChar(1)}},
		{k.HistoryPrevious, HistoryPrevious{}},
		{k.HistoryNext, HistoryNext{}},
		{k.BackwardChar, Move{BackwardChar(1)}},
		{k.BackwardKillWord, Kill{BackwardWord(1)}},
		{k.BackwardWord, Move{BackwardWord(1)}},
		{k.ForwardWord, Move{ForwardWord(1)}},
		{k.StartOfLine, Move{StartOfLine()}},
		{k.EndOfLine, Move{EndOfLine()}},
		{k.ForwardChar, Move{ForwardChar(1)}},
	}
	for _, r := range rules {
		if key.Matches(ev, r.binding) {
			return r.action, true
		}
	}

	if ev.printable() {
		return InsertChar{Count: 1, Char: ev.Rune}, true
	}

	switch {
	case key.Matches(ev, k.Repaint):
		return Repaint{}, true
	case key.Matches(ev, k.KillLine):
		return Kill{EndOfLine()}, true
	}
	return nil, false
}

// Resolve maps ev through the default keymap.
func Resolve(ev InputEvent) (Action, bool) {
	return defaultKeyMap.Resolve(ev)
}

var defaultKeyMap = DefaultKeyMap()
