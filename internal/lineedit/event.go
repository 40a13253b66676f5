package lineedit

import (
	"strings"
	"unicode"
)

// InputEvent is a single decoded terminal input. The set is closed:
// KeyEvent and PasteEvent are the only implementations.
type InputEvent interface {
	isInputEvent()
}

// KeyCode identifies a key. KeyRune means the key produced KeyEvent.Rune.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

var keyNames = map[KeyCode]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyEscape:    "esc",
	KeyDelete:    "delete",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper

	ModNone Modifiers = 0
)

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// KeyEvent is a key press with its modifiers.
type KeyEvent struct {
	Code KeyCode
	Rune rune
	Mods Modifiers
}

func (KeyEvent) isInputEvent() {}

// Key builds a KeyEvent for a non-character key.
func Key(code KeyCode, mods Modifiers) KeyEvent {
	return KeyEvent{Code: code, Mods: mods}
}

// Char builds a KeyEvent for a character key.
func Char(r rune, mods Modifiers) KeyEvent {
	return KeyEvent{Code: KeyRune, Rune: r, Mods: mods}
}

// Ctrl is shorthand for Char(r, ModCtrl).
func Ctrl(r rune) KeyEvent {
	return Char(r, ModCtrl)
}

// Alt is shorthand for Char(r, ModAlt).
func Alt(r rune) KeyEvent {
	return Char(r, ModAlt)
}

// String renders the event as a key name such as "ctrl+c", "alt+left" or
// "a", the same vocabulary bubbles/key bindings are declared in. Letters
// pressed with ctrl are folded to lower case so Ctrl-C and Ctrl-c name the
// same key.
func (k KeyEvent) String() string {
	var b strings.Builder
	if k.Mods.Has(ModCtrl) {
		b.WriteString("ctrl+")
	}
	if k.Mods.Has(ModAlt) {
		b.WriteString("alt+")
	}
	if k.Mods.Has(ModSuper) {
		b.WriteString("super+")
	}
	if k.Mods.Has(ModShift) {
		b.WriteString("shift+")
	}

	if k.Code != KeyRune {
		b.WriteString(keyNames[k.Code])
		return b.String()
	}

	r := k.Rune
	if k.Mods.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	if r == ' ' {
		b.WriteString("space")
	} else {
		b.WriteRune(r)
	}
	return b.String()
}

// printable reports whether the event is a character typed with at most shift held.
func (k KeyEvent) printable() bool {
	if k.Code != KeyRune || k.Mods&^ModShift != 0 {
		return false
	}
	return !unicode.IsControl(k.Rune) && k.Rune != unicode.ReplacementChar
}

// PasteEvent carries text delivered as one bracketed paste.
type PasteEvent struct {
	Text string
}

func (PasteEvent) isInputEvent() {}
