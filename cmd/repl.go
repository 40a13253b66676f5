package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/ripline/internal/config"
	"github.com/zjrosen/ripline/internal/history"
	"github.com/zjrosen/ripline/internal/host"
	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
	"github.com/zjrosen/ripline/internal/tracing"
	"github.com/zjrosen/ripline/internal/watcher"
)

// repl reads lines until end of file, recording each accepted line in
// history and echoing it to out.
type repl struct {
	editor *lineedit.Editor
	host   *host.Host
	store  *history.Store // nil when history is disabled
	out    io.Writer
	tracer trace.Tracer // nil when tracing is disabled

	session string
	mode    string

	// pending holds a reloaded config until the next prompt. The editor
	// is not safe for concurrent use, so it is only touched between lines.
	pending atomic.Pointer[config.Config]
}

func newREPL(c config.Config, store *history.Store, t lineedit.Transport, out io.Writer) *repl {
	r := &repl{
		editor: lineedit.New(t, lineedit.WithPrompt(c.Prompt)),
		store:  store,
		out:    out,
		mode:   c.Terminal.Mode,
	}
	if store != nil {
		r.host = host.New(c, store)
		r.session = store.Session()
	} else {
		r.host = host.New(c, nil)
		r.session = uuid.NewString()
	}
	return r
}

// reload applies c. Safe to call from any goroutine.
func (r *repl) reload(c config.Config) {
	r.host.Configure(c)
	r.pending.Store(&c)
}

func (r *repl) run(ctx context.Context) error {
	log.Info(log.CatEditor, "repl started", "session", r.session, "mode", r.mode)
	defer log.Info(log.CatEditor, "repl ended", "session", r.session)

	for {
		if c := r.pending.Swap(nil); c != nil {
			r.editor.SetPrompt(c.Prompt)
		}

		line, ok, err := tracing.ReadLine(ctx, r.tracer, r.editor, r.host,
			attribute.String(tracing.AttrSessionID, r.session),
			attribute.String(tracing.AttrTerminalMode, r.mode),
		)
		if errors.Is(err, lineedit.ErrEndOfFile) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		r.record(ctx, line)
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
}

// record adds line to history. A failed write is logged and the session
// continues.
func (r *repl) record(ctx context.Context, line string) {
	if r.store == nil {
		r.host.AddHistory(line)
		return
	}
	err := tracing.Run(ctx, r.tracer, tracing.SpanHistoryAdd, func(ctx context.Context) error {
		return r.store.Add(ctx, line)
	}, attribute.String(tracing.AttrSessionID, r.session))
	if err != nil {
		log.ErrorErr(log.CatHistory, "failed to record line", err, "session", r.session)
	}
}

// watchHistory invalidates store's cache whenever the database at path
// changes, so lines cleared or added by other sessions are seen. The
// returned func stops watching.
func watchHistory(ctx context.Context, store *history.Store, path string) func() {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.ErrorErr(log.CatHistory, "history watch unavailable", err)
		return func() {}
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.ErrorErr(log.CatHistory, "history watch unavailable", err, "path", path)
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-changes:
				if err := store.Invalidate(ctx); err != nil {
					log.ErrorErr(log.CatHistory, "history cache invalidation failed", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		_ = w.Stop()
	}
}
