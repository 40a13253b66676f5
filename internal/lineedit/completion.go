package lineedit

// Candidate is one completion offered by the host. Start and End are a byte
// range of the line as it was when completion started; Text replaces it.
type Candidate struct {
	Start int
	End   int
	Text  string
}

// completionState is an active completion cycle. A nil *completionState
// means completion is idle.
type completionState struct {
	candidates     []Candidate
	index          int
	originalLine   string
	originalCursor int
}

func newCompletionState(line string, cursor int, candidates []Candidate) *completionState {
	return &completionState{
		candidates:     candidates,
		originalLine:   line,
		originalCursor: cursor,
	}
}

func (s *completionState) next() {
	s.index = (s.index + 1) % len(s.candidates)
}

// current splices the selected candidate into the original line and returns
// the resulting line and cursor. The cursor shifts by the difference between
// the replacement and the replaced range, so "he" completed to "hello"
// moves it three bytes right.
func (s *completionState) current() (string, int) {
	c := s.candidates[s.index]
	orig := s.originalLine

	start := clampOffset(orig, c.Start)
	end := max(start, clampOffset(orig, c.End))

	line := orig[:start] + c.Text + orig[end:]
	cursor := s.originalCursor + len(c.Text) - (end - start)
	return line, clampOffset(line, cursor)
}
