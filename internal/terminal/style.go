package terminal

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
)

// sgr returns the SGR sequence selecting st, downgraded to what profile
// can display. The default style yields "".
func sgr(st tcell.Style, profile termenv.Profile) string {
	fg, bg, attrs := st.Decompose()

	var s ansi.Style
	if attrs&tcell.AttrBold != 0 {
		s = s.Bold()
	}
	if attrs&tcell.AttrDim != 0 {
		s = s.Faint()
	}
	if attrs&tcell.AttrItalic != 0 {
		s = s.Italic(true)
	}
	if attrs&tcell.AttrUnderline != 0 {
		s = s.Underline(true)
	}
	if attrs&tcell.AttrReverse != 0 {
		s = s.Reverse(true)
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		s = s.Strikethrough(true)
	}
	if seq := colorSequence(fg, false, profile); seq != "" {
		s = append(s, seq)
	}
	if seq := colorSequence(bg, true, profile); seq != "" {
		s = append(s, seq)
	}

	if len(s) == 0 {
		return ""
	}
	return s.String()
}

// colorSequence returns the SGR parameters for c. Palette colors keep their
// index so the terminal's own palette applies.
func colorSequence(c tcell.Color, bg bool, profile termenv.Profile) string {
	if !c.Valid() || profile == termenv.Ascii {
		return ""
	}

	var spec string
	if c.IsRGB() {
		spec = fmt.Sprintf("#%06x", c.Hex())
	} else {
		idx := int(c - tcell.ColorValid)
		if idx > 255 {
			return ""
		}
		spec = strconv.Itoa(idx)
	}

	tc := profile.Color(spec)
	if tc == nil {
		return ""
	}
	return tc.Sequence(bg)
}
