package lineedit

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor keybindings. Bindings are matched against
// KeyEvent.String().
type KeyMap struct {
	// Session
	Cancel     key.Binding
	EndOfFile  key.Binding
	AcceptLine key.Binding
	Repaint    key.Binding

	// Completion and history
	Complete        key.Binding
	HistoryPrevious key.Binding
	HistoryNext     key.Binding

	// Movement
	BackwardChar key.Binding
	ForwardChar  key.Binding
	BackwardWord key.Binding
	ForwardWord  key.Binding
	StartOfLine  key.Binding
	EndOfLine    key.Binding

	// Killing
	BackwardDeleteChar key.Binding
	BackwardKillWord   key.Binding
	KillLine           key.Binding
}

// DefaultKeyMap returns the default emacs-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel line"),
		),
		EndOfFile: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "end of file"),
		),
		AcceptLine: key.NewBinding(
			key.WithKeys("ctrl+j", "ctrl+m", "enter"),
			key.WithHelp("enter", "accept line"),
		),
		Repaint: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear and repaint"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete / next candidate"),
		),
		HistoryPrevious: key.NewBinding(
			key.WithKeys("ctrl+p", "up"),
			key.WithHelp("ctrl+p/↑", "previous history"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("ctrl+n", "down"),
			key.WithHelp("ctrl+n/↓", "next history"),
		),
		BackwardChar: key.NewBinding(
			key.WithKeys("ctrl+b", "left"),
			key.WithHelp("ctrl+b/←", "back one character"),
		),
		ForwardChar: key.NewBinding(
			key.WithKeys("ctrl+f", "right"),
			key.WithHelp("ctrl+f/→", "forward one character"),
		),
		BackwardWord: key.NewBinding(
			key.WithKeys("alt+b", "alt+left"),
			key.WithHelp("alt+b/alt+←", "back one word"),
		),
		ForwardWord: key.NewBinding(
			key.WithKeys("alt+f", "alt+right"),
			key.WithHelp("alt+f/alt+→", "forward one word"),
		),
		StartOfLine: key.NewBinding(
			key.WithKeys("ctrl+a", "home"),
			key.WithHelp("ctrl+a/home", "start of line"),
		),
		EndOfLine: key.NewBinding(
			key.WithKeys("ctrl+e", "end"),
			key.WithHelp("ctrl+e/end", "end of line"),
		),
		BackwardDeleteChar: key.NewBinding(
			key.WithKeys("ctrl+h", "backspace"),
			key.WithHelp("ctrl+h/bksp", "delete previous character"),
		),
		BackwardKillWord: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "delete previous word"),
		),
		KillLine: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "delete to end of line"),
		),
	}
}

// ShortHelp returns the bindings shown in compact help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AcceptLine, k.Cancel, k.Complete, k.HistoryPrevious, k.EndOfFile}
}

// FullHelp returns all bindings grouped into columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AcceptLine, k.Cancel, k.EndOfFile, k.Repaint, k.Complete},
		{k.BackwardChar, k.ForwardChar, k.BackwardWord, k.ForwardWord, k.StartOfLine, k.EndOfLine},
		{k.HistoryPrevious, k.HistoryNext, k.BackwardDeleteChar, k.BackwardKillWord, k.KillLine},
	}
}
