package lineedit

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// scriptTransport replays a fixed list of events and records output.
type scriptTransport struct {
	events  []InputEvent
	pollErr error // returned once events run out; io.EOF when nil

	renders    [][]Change
	raw        bool
	enterCalls int
	leaveCalls int
	flushes    int
}

func newScript(events ...InputEvent) *scriptTransport {
	return &scriptTransport{events: events}
}

func (t *scriptTransport) EnterRawMode() error {
	t.raw = true
	t.enterCalls++
	return nil
}

func (t *scriptTransport) LeaveRawMode() error {
	t.raw = false
	t.leaveCalls++
	return nil
}

func (t *scriptTransport) PollInput() (InputEvent, error) {
	if len(t.events) == 0 {
		if t.pollErr != nil {
			return nil, t.pollErr
		}
		return nil, io.EOF
	}
	ev := t.events[0]
	t.events = t.events[1:]
	return ev, nil
}

func (t *scriptTransport) Render(changes []Change) error {
	t.renders = append(t.renders, changes)
	return nil
}

func (t *scriptTransport) Flush() error {
	t.flushes++
	return nil
}

// lastFrame returns the last render before the trailing newline.
func (t *scriptTransport) lastFrame() []Change {
	for i := len(t.renders) - 1; i >= 0; i-- {
		if len(t.renders[i]) == 1 {
			if _, ok := t.renders[i][0].(Newline); ok {
				continue
			}
		}
		return t.renders[i]
	}
	return nil
}

// mockTransport is a testify mock for failure paths.
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) EnterRawMode() error {
	return m.Called().Error(0)
}

func (m *mockTransport) LeaveRawMode() error {
	return m.Called().Error(0)
}

func (m *mockTransport) PollInput() (InputEvent, error) {
	args := m.Called()
	ev, _ := args.Get(0).(InputEvent)
	return ev, args.Error(1)
}

func (m *mockTransport) Render(changes []Change) error {
	return m.Called(changes).Error(0)
}

func (m *mockTransport) Flush() error {
	return m.Called().Error(0)
}

// typed converts s into one plain key event per rune.
func typed(s string) []InputEvent {
	events := make([]InputEvent, 0, len(s))
	for _, r := range s {
		events = append(events, Char(r, ModNone))
	}
	return events
}

func seq(groups ...[]InputEvent) []InputEvent {
	var out []InputEvent
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func keys(events ...InputEvent) []InputEvent {
	return events
}

// testHost is a NopHost with scripted completions and a fixed history.
type testHost struct {
	NopHost
	candidates   []Candidate
	hist         History
	completeHits int
}

func (h *testHost) Complete(string, int) []Candidate {
	h.completeHits++
	return h.candidates
}

func (h *testHost) History() History {
	if h.hist == nil {
		return h.NopHost.History()
	}
	return h.hist
}
