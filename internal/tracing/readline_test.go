package tracing

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/ripline/internal/lineedit"
)

// scriptTransport feeds canned events to the editor and discards output.
type scriptTransport struct {
	events []lineedit.InputEvent
}

func (s *scriptTransport) EnterRawMode() error            { return nil }
func (s *scriptTransport) LeaveRawMode() error            { return nil }
func (s *scriptTransport) Render([]lineedit.Change) error { return nil }
func (s *scriptTransport) Flush() error                   { return nil }

func (s *scriptTransport) PollInput() (lineedit.InputEvent, error) {
	if len(s.events) == 0 {
		return nil, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func key(code lineedit.KeyCode) lineedit.InputEvent {
	return lineedit.Key(code, lineedit.ModNone)
}

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder, tp
}

func attrMap(kvs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestReadLine_RecordsAcceptedLine(t *testing.T) {
	recorder, tp := newRecorder(t)

	host := &lineedit.NopHost{}
	host.AddHistory("make build")
	editor := lineedit.New(&scriptTransport{events: []lineedit.InputEvent{
		key(lineedit.KeyUp),
		key(lineedit.KeyTab),
		key(lineedit.KeyEnter),
	}}, lineedit.WithPrompt("$ "))

	line, ok, err := ReadLine(context.Background(), tp.Tracer("test"), editor, host,
		attribute.String(AttrSessionID, "s1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "make build", line)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, SpanReadLine, span.Name())
	require.Equal(t, codes.Ok, span.Status().Code)

	attrs := attrMap(span.Attributes())
	require.Equal(t, "s1", attrs[AttrSessionID])
	require.Equal(t, int64(2), attrs[AttrPromptWidth])
	require.Equal(t, int64(len("make build")), attrs[AttrLineLength])
	require.Equal(t, true, attrs[AttrAccepted])
	for _, v := range attrs {
		require.NotEqual(t, "make build", v, "line content must not be recorded")
	}

	var names []string
	for _, e := range span.Events() {
		names = append(names, e.Name)
	}
	require.Contains(t, names, EventHistoryLookup)
	require.Contains(t, names, EventCompletionQueried)
}

func TestReadLine_RecordsError(t *testing.T) {
	recorder, tp := newRecorder(t)

	editor := lineedit.New(&scriptTransport{})
	_, _, err := ReadLine(context.Background(), tp.Tracer("test"), editor, &lineedit.NopHost{})
	require.ErrorIs(t, err, lineedit.ErrEndOfFile)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestReadLine_NilTracer(t *testing.T) {
	editor := lineedit.New(&scriptTransport{events: []lineedit.InputEvent{
		lineedit.PasteEvent{Text: "ls"},
		key(lineedit.KeyEnter),
	}})
	line, ok, err := ReadLine(context.Background(), nil, editor, &lineedit.NopHost{})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ls", line)
}

type nilHistoryHost struct {
	lineedit.NopHost
}

func (nilHistoryHost) History() lineedit.History { return nil }

func TestTracedHost_KeepsNilHistory(t *testing.T) {
	_, tp := newRecorder(t)
	_, span := tp.Tracer("test").Start(context.Background(), "s")
	defer span.End()

	h := &tracedHost{Host: &nilHistoryHost{}, span: span}
	require.Nil(t, h.History())
}

func TestRun(t *testing.T) {
	recorder, tp := newRecorder(t)
	tracer := tp.Tracer("test")

	require.NoError(t, Run(context.Background(), tracer, SpanHistoryAdd, func(context.Context) error { return nil }))
	boom := errors.New("disk full")
	require.ErrorIs(t, Run(context.Background(), tracer, SpanHistoryAdd, func(context.Context) error { return boom }), boom)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, codes.Ok, spans[0].Status().Code)
	require.Equal(t, codes.Error, spans[1].Status().Code)
	require.Equal(t, "disk full", spans[1].Status().Description)

	called := false
	require.NoError(t, Run(context.Background(), nil, "x", func(context.Context) error { called = true; return nil }))
	require.True(t, called)
}
