package history

import (
	"io"

	"github.com/zjrosen/ripline/internal/lineedit"
)

// scriptTransport feeds canned events to the editor and discards output.
type scriptTransport struct {
	events []lineedit.InputEvent
}

func newScript(events ...lineedit.InputEvent) *scriptTransport {
	return &scriptTransport{events: events}
}

func (s *scriptTransport) EnterRawMode() error           { return nil }
func (s *scriptTransport) LeaveRawMode() error           { return nil }
func (s *scriptTransport) Render([]lineedit.Change) error { return nil }
func (s *scriptTransport) Flush() error                  { return nil }

func (s *scriptTransport) PollInput() (lineedit.InputEvent, error) {
	if len(s.events) == 0 {
		return nil, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// storeHost browses a Store and otherwise behaves like lineedit.NopHost.
type storeHost struct {
	lineedit.NopHost
	store *Store
}

func (h *storeHost) History() lineedit.History {
	return h.store
}
