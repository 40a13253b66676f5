package lineedit

// Transport is the terminal the editor drives.
type Transport interface {
	// EnterRawMode disables line buffering and echo.
	EnterRawMode() error
	// LeaveRawMode restores the terminal's cooked mode.
	LeaveRawMode() error
	// PollInput blocks until the next input event. It returns io.EOF once
	// the input is exhausted.
	PollInput() (InputEvent, error)
	// Render applies changes in order. Output may be buffered until Flush.
	Render(changes []Change) error
	// Flush writes any buffered output.
	Flush() error
}

// Change is one output instruction for a Transport.
type Change interface {
	isChange()
}

type (
	// MoveToColumn places the cursor at a zero-based column of the current row.
	MoveToColumn struct{ Col int }
	// ClearToEndOfScreen erases from the cursor to the end of the screen.
	ClearToEndOfScreen struct{}
	// ClearScreen erases the whole screen and homes the cursor.
	ClearScreen struct{}
	// ResetAttributes restores the default style.
	ResetAttributes struct{}
	// Text draws a styled span at the cursor.
	Text struct{ Span Span }
	// Newline moves to the start of the next row.
	Newline struct{}
)

func (MoveToColumn) isChange()       {}
func (ClearToEndOfScreen) isChange() {}
func (ClearScreen) isChange()        {}
func (ResetAttributes) isChange()    {}
func (Text) isChange()               {}
func (Newline) isChange()            {}
