// Package history persists accepted lines in SQLite so they can be browsed
// across sessions.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/ripline/internal/cachemanager"
	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
)

const entryTTL = cachemanager.DefaultExpiration

// Entry is one stored line.
type Entry struct {
	ID        int64
	Session   string
	Line      string
	CreatedAt time.Time
}

// Store is a lineedit.History backed by a SQLite database. Indexes are
// zero-based positions in insertion order and stay stable while entries
// are only added.
type Store struct {
	conn    *sql.DB
	session string
	entries *cachemanager.ReadThroughCache[int, Entry, int]

	mu   sync.Mutex
	seen extent
}

// extent identifies the rows backing the cached indexes. Row ids are never
// reused, so a clear or trim by any process changes first or shrinks count.
type extent struct {
	count int
	first int64
}

var _ lineedit.History = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithSession records added entries under id instead of a generated one.
func WithSession(id string) Option {
	return func(s *Store) {
		s.session = id
	}
}

// Open opens or creates the history database at path, creating its parent
// directory if needed, and brings the schema up to date.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := migrateUp(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := &Store{
		conn:    conn,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	cache := cachemanager.NewInMemoryCacheManager[int, Entry]("history", entryTTL, cachemanager.DefaultCleanupInterval)
	s.entries = cachemanager.NewReadThroughCache[int, Entry, int](cache, s.loadEntry, false)

	log.Debug(log.CatHistory, "history opened", "path", path, "session", s.session)
	return s, nil
}

// Session returns the id new entries are recorded under.
func (s *Store) Session() string {
	return s.session
}

// Add appends line. Empty lines and repeats of the newest entry are skipped.
func (s *Store) Add(ctx context.Context, line string) error {
	if line == "" {
		return nil
	}

	var last string
	err := s.conn.QueryRowContext(ctx, `SELECT line FROM entries ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read newest entry: %w", err)
	}
	if err == nil && last == line {
		return nil
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO entries (session, line, created_at) VALUES (?, ?, ?)`,
		s.session, line, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// Entry returns the entry at idx, or *EntryNotFoundError.
func (s *Store) Entry(ctx context.Context, idx int) (Entry, error) {
	if idx < 0 {
		return Entry{}, &EntryNotFoundError{Index: idx}
	}
	return s.entries.Get(ctx, idx, idx, entryTTL)
}

func (s *Store) loadEntry(ctx context.Context, idx int) (Entry, error) {
	var e Entry
	var created int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, session, line, created_at FROM entries ORDER BY id LIMIT 1 OFFSET ?`, idx,
	).Scan(&e.ID, &e.Session, &e.Line, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, &EntryNotFoundError{Index: idx}
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load entry %d: %w", idx, err)
	}
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}

// Get implements lineedit.History.
func (s *Store) Get(idx int) (string, bool) {
	e, err := s.Entry(context.Background(), idx)
	if err != nil {
		var notFound *EntryNotFoundError
		if !errors.As(err, &notFound) {
			log.ErrorErr(log.CatHistory, "history lookup failed", err, "index", idx)
		}
		return "", false
	}
	return e.Line, true
}

// Last implements lineedit.History.
func (s *Store) Last() (int, bool) {
	n, err := s.Len(context.Background())
	if err != nil {
		log.ErrorErr(log.CatHistory, "history count failed", err)
		return 0, false
	}
	if n == 0 {
		return 0, false
	}
	return n - 1, true
}

// Len returns the number of stored entries. When the rows behind the
// cached indexes have changed since the last count, the cache is dropped
// so Get does not serve lines that no longer exist.
func (s *Store) Len(ctx context.Context) (int, error) {
	var cur extent
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(MIN(id), 0) FROM entries`).Scan(&cur.count, &cur.first)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	s.mu.Lock()
	prev := s.seen
	s.seen = cur
	s.mu.Unlock()

	if cur.count < prev.count || (prev.count > 0 && cur.first != prev.first) {
		log.Debug(log.CatHistory, "history rewritten elsewhere", "count", cur.count, "was", prev.count)
		if err := s.Invalidate(ctx); err != nil {
			return 0, err
		}
	}
	return cur.count, nil
}

// List returns up to limit of the newest entries, oldest first. A limit of
// zero or less returns everything. A non-empty session restricts the
// result to that session's entries.
func (s *Store) List(ctx context.Context, session string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, session, line, created_at FROM (
			SELECT id, session, line, created_at FROM entries
			WHERE ? = '' OR session = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id`,
		session, session, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Line, &created); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return s.Invalidate(ctx)
}

// Invalidate drops cached entries so the next lookups read the database.
// Call it when another process may have rewritten history.
func (s *Store) Invalidate(ctx context.Context) error {
	return s.entries.Invalidate(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}
