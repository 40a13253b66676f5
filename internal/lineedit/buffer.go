package lineedit

// lineBuffer is the line being edited and the cursor's byte offset into it.
type lineBuffer struct {
	line   string
	cursor int
}

func (b *lineBuffer) reset() {
	b.line = ""
	b.cursor = 0
}

// setLine replaces the line and parks the cursor at its end.
func (b *lineBuffer) setLine(line string) {
	b.line = line
	b.cursor = len(line)
}

func (b *lineBuffer) move(m Movement) {
	b.cursor = EvalMovement(b.line, b.cursor, m)
}

// insertChar inserts c at the cursor count times. After each insert the
// cursor advances to the next grapheme boundary, which may lie beyond c
// when c combines with the text that follows it.
func (b *lineBuffer) insertChar(count int, c rune) {
	s := string(c)
	for i := 0; i < count; i++ {
		b.line = b.line[:b.cursor] + s + b.line[b.cursor:]
		if next, ok := nextGraphemeBoundary(b.line, b.cursor); ok {
			b.cursor = next
		}
	}
}

func (b *lineBuffer) insertText(count int, text string) {
	for i := 0; i < count; i++ {
		b.line = b.line[:b.cursor] + text + b.line[b.cursor:]
		b.cursor += len(text)
	}
}

// kill deletes the text between the cursor and the movement target. The
// cursor lands on the target, clamped to the shortened line.
func (b *lineBuffer) kill(m Movement) {
	target := EvalMovement(b.line, b.cursor, m)

	lo, hi := b.cursor, target
	if target < b.cursor {
		lo, hi = target, b.cursor
	}
	b.line = b.line[:lo] + b.line[hi:]
	b.cursor = min(target, len(b.line))
}
