package tracing

// Span attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrTerminalMode = "terminal.mode"
	AttrPromptWidth  = "prompt.width"
	AttrLineLength   = "line.length"
	AttrAccepted     = "line.accepted"

	AttrCompletionPrefixLen  = "completion.prefix_length"
	AttrCompletionCandidates = "completion.candidates"
	AttrHistoryIndex         = "history.index"
	AttrHistoryFound         = "history.found"
)

// Span names.
const (
	SpanReadLine   = "editor.read_line"
	SpanHistoryAdd = "history.add"
)

// Span events.
const (
	EventCompletionQueried = "completion.queried"
	EventHistoryLookup     = "history.lookup"
)
