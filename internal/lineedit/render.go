package lineedit

// frame builds the changes that redraw the prompt and line on the current
// row and park the cursor. The prompt's display width is summed from its
// spans; the line's cursor column comes from the host.
func frame(host Host, prompt string, buf lineBuffer) []Change {
	changes := []Change{
		MoveToColumn{Col: 0},
		ClearToEndOfScreen{},
		ResetAttributes{},
	}

	promptWidth := 0
	for _, span := range host.RenderPrompt(prompt) {
		promptWidth += DisplayWidth(span.Text)
		changes = append(changes, Text{Span: span})
	}
	changes = append(changes, ResetAttributes{})

	spans, cursorCol := host.HighlightLine(buf.line, buf.cursor)
	for _, span := range spans {
		changes = append(changes, Text{Span: span})
	}

	return append(changes, MoveToColumn{Col: promptWidth + max(cursorCol, 0)})
}

func (e *Editor) render(host Host, clear bool) error {
	changes := frame(host, e.prompt, e.buf)
	if clear {
		changes = append([]Change{ClearScreen{}}, changes...)
	}
	if err := e.transport.Render(changes); err != nil {
		return transportErr("render", err)
	}
	if err := e.transport.Flush(); err != nil {
		return transportErr("flush", err)
	}
	return nil
}
