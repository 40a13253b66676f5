package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/ripline/internal/lineedit"
)

// LineReader reads one line. *lineedit.Editor implements it.
type LineReader interface {
	ReadLine(host lineedit.Host) (string, bool, error)
	Prompt() string
}

// ReadLine calls r.ReadLine inside a span. Completion queries and history
// lookups made through host are added to the span as events. Line content
// is never recorded, only its length.
//
// A nil tracer reads without tracing.
func ReadLine(ctx context.Context, tracer trace.Tracer, r LineReader, host lineedit.Host, attrs ...attribute.KeyValue) (string, bool, error) {
	if tracer == nil {
		return r.ReadLine(host)
	}

	_, span := tracer.Start(ctx, SpanReadLine,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()
	span.SetAttributes(attribute.Int(AttrPromptWidth, lineedit.DisplayWidth(r.Prompt())))

	line, ok, err := r.ReadLine(&tracedHost{Host: host, span: span})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return line, ok, err
	}

	span.SetAttributes(
		attribute.Bool(AttrAccepted, ok),
		attribute.Int(AttrLineLength, len(line)),
	)
	span.SetStatus(codes.Ok, "")
	return line, ok, nil
}

// Run calls fn inside a span named name, recording its error.
func Run(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	if tracer == nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

type tracedHost struct {
	lineedit.Host
	span trace.Span
}

func (h *tracedHost) Complete(line string, cursor int) []lineedit.Candidate {
	candidates := h.Host.Complete(line, cursor)

	prefixLen := 0
	if len(candidates) > 0 {
		prefixLen = candidates[0].End - candidates[0].Start
	}
	h.span.AddEvent(EventCompletionQueried, trace.WithAttributes(
		attribute.Int(AttrCompletionPrefixLen, prefixLen),
		attribute.Int(AttrCompletionCandidates, len(candidates)),
	))
	return candidates
}

func (h *tracedHost) History() lineedit.History {
	history := h.Host.History()
	if history == nil {
		return nil
	}
	return &tracedHistory{History: history, span: h.span}
}

type tracedHistory struct {
	lineedit.History
	span trace.Span
}

func (h *tracedHistory) Get(idx int) (string, bool) {
	line, ok := h.History.Get(idx)
	h.span.AddEvent(EventHistoryLookup, trace.WithAttributes(
		attribute.Int(AttrHistoryIndex, idx),
		attribute.Bool(AttrHistoryFound, ok),
	))
	return line, ok
}
