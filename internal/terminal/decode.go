package terminal

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
)

const readChunk = 256

var pasteEnd = []byte(ansi.BracketedPasteEnd)

// decoder turns a raw terminal byte stream into input events.
//
// Escape sequences split across reads are completed by reading more, with
// one exception: an ESC (or ESC followed by a single byte) that ends a read
// is reported immediately, as Escape or as the alt-modified key.
type decoder struct {
	r   io.Reader
	buf []byte
	err error
	p   *ansi.Parser

	pasting bool
	paste   strings.Builder
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{r: r, p: ansi.NewParser()}
}

// Next returns the next event. It returns io.EOF once the reader is
// exhausted; bytes of an unfinished sequence at that point are dropped.
func (d *decoder) Next() (lineedit.InputEvent, error) {
	for {
		for len(d.buf) > 0 {
			ev, n := d.parse(d.buf)
			if n == 0 {
				break
			}
			d.buf = d.buf[n:]
			if ev != nil {
				return ev, nil
			}
		}
		if d.err != nil {
			return nil, d.err
		}
		d.fill()
	}
}

func (d *decoder) fill() {
	var chunk [readChunk]byte
	n, err := d.r.Read(chunk[:])
	d.buf = append(d.buf, chunk[:n]...)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.EOF
		}
		d.err = err
	}
}

// parse decodes one event from the front of b. It reports the bytes
// consumed, which may be non-zero with a nil event for input that is
// swallowed. Zero means more input is needed.
func (d *decoder) parse(b []byte) (lineedit.InputEvent, int) {
	if d.pasting {
		return d.parsePaste(b)
	}
	if b[0] == ansi.ESC {
		return d.parseEscape(b)
	}
	return parsePlain(b)
}

func parsePlain(b []byte) (lineedit.InputEvent, int) {
	c := b[0]
	if c < 0x20 || c == ansi.DEL {
		return controlKey(c), 1
	}
	if !utf8.FullRune(b) {
		return nil, 0
	}
	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return nil, n
	}
	return lineedit.Char(r, lineedit.ModNone), n
}

func controlKey(c byte) lineedit.InputEvent {
	switch c {
	case '\r':
		return lineedit.Key(lineedit.KeyEnter, lineedit.ModNone)
	case '\t':
		return lineedit.Key(lineedit.KeyTab, lineedit.ModNone)
	case ansi.DEL:
		return lineedit.Key(lineedit.KeyBackspace, lineedit.ModNone)
	case ansi.NUL:
		return lineedit.Ctrl(' ')
	}
	if c >= 1 && c <= 26 {
		return lineedit.Ctrl(rune('a' + c - 1))
	}
	return nil
}

var ss3Keys = map[byte]lineedit.KeyCode{
	'A': lineedit.KeyUp,
	'B': lineedit.KeyDown,
	'C': lineedit.KeyRight,
	'D': lineedit.KeyLeft,
	'H': lineedit.KeyHome,
	'F': lineedit.KeyEnd,
}

var tildeKeys = map[int]lineedit.KeyCode{
	1: lineedit.KeyHome,
	3: lineedit.KeyDelete,
	4: lineedit.KeyEnd,
	7: lineedit.KeyHome,
	8: lineedit.KeyEnd,
}

func (d *decoder) parseEscape(b []byte) (lineedit.InputEvent, int) {
	if len(b) == 1 {
		return lineedit.Key(lineedit.KeyEscape, lineedit.ModNone), 1
	}

	switch b[1] {
	case '[':
		return d.parseCSI(b)
	case 'O':
		if len(b) == 2 {
			return lineedit.Alt('O'), 2
		}
		if code, ok := ss3Keys[b[2]]; ok {
			return lineedit.Key(code, lineedit.ModNone), 3
		}
		log.Debug(log.CatTerm, "unhandled SS3 sequence", "final", string(b[2]))
		return nil, 3
	case ansi.ESC:
		return lineedit.Key(lineedit.KeyEscape, lineedit.ModNone), 1
	}

	ev, n := parsePlain(b[1:])
	if n == 0 {
		return nil, 0
	}
	if k, ok := ev.(lineedit.KeyEvent); ok {
		k.Mods |= lineedit.ModAlt
		return k, n + 1
	}
	return nil, n + 1
}

func (d *decoder) parseCSI(b []byte) (lineedit.InputEvent, int) {
	seq, _, n, state := ansi.DecodeSequence(b, 0, d.p)
	if state != 0 {
		return nil, 0
	}

	cmd := ansi.Cmd(d.p.Command())
	if cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		log.Debug(log.CatTerm, "unhandled CSI sequence", "seq", string(seq))
		return nil, n
	}
	mod, _ := d.p.Param(1, 1)
	mods := csiModifiers(mod)

	switch final := cmd.Final(); final {
	case '~':
		code, _ := d.p.Param(0, 0)
		switch code {
		case 200:
			d.pasting = true
			d.paste.Reset()
			return nil, n
		case 201:
			return nil, n
		}
		if k, ok := tildeKeys[code]; ok {
			return lineedit.Key(k, mods), n
		}
	case 'Z':
		return lineedit.Key(lineedit.KeyTab, lineedit.ModShift), n
	default:
		if k, ok := ss3Keys[final]; ok {
			return lineedit.Key(k, mods), n
		}
	}

	log.Debug(log.CatTerm, "unhandled CSI sequence", "seq", string(seq))
	return nil, n
}

// csiModifiers decodes the xterm modifier parameter, which is one plus a
// bit set of shift, alt, ctrl and meta.
func csiModifiers(param int) lineedit.Modifiers {
	bits := param - 1
	if bits <= 0 {
		return lineedit.ModNone
	}
	var mods lineedit.Modifiers
	if bits&1 != 0 {
		mods |= lineedit.ModShift
	}
	if bits&2 != 0 {
		mods |= lineedit.ModAlt
	}
	if bits&4 != 0 {
		mods |= lineedit.ModCtrl
	}
	if bits&8 != 0 {
		mods |= lineedit.ModSuper
	}
	return mods
}

func (d *decoder) parsePaste(b []byte) (lineedit.InputEvent, int) {
	if i := bytes.Index(b, pasteEnd); i >= 0 {
		d.paste.Write(b[:i])
		d.pasting = false
		text := normalizeNewlines(d.paste.String())
		d.paste.Reset()
		return lineedit.PasteEvent{Text: text}, i + len(pasteEnd)
	}

	// Hold back a tail that may be the start of the end marker.
	n := len(b) - markerPrefixLen(b, pasteEnd)
	d.paste.Write(b[:n])
	return nil, n
}

// markerPrefixLen returns the length of the longest proper prefix of
// marker that b ends with.
func markerPrefixLen(b, marker []byte) int {
	for k := min(len(b), len(marker)-1); k > 0; k-- {
		if bytes.HasSuffix(b, marker[:k]) {
			return k
		}
	}
	return 0
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string {
	return newlines.Replace(s)
}
