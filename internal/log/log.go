// Package log writes ripline's debug log. Nothing is written until the
// REPL enables it with --debug or RIPLINE_DEBUG, because the editor owns
// the terminal and stderr output would tear the prompt.
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is a message severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel reads RIPLINE_LOG_LEVEL style names. Anything unrecognised
// logs everything.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category tags the part of ripline a message comes from.
type Category string

const (
	CatEditor   Category = "editor"   // read-line loop
	CatTerm     Category = "term"     // transports, key decoding
	CatHistory  Category = "history"  // navigation, store, watcher
	CatComplete Category = "complete" // candidate queries
	CatConfig   Category = "config"
	CatDB       Category = "db"
	CatCache    Category = "cache"
	CatTrace    Category = "trace"
)

type sink struct {
	mu       sync.Mutex
	out      io.Writer
	enabled  bool
	minLevel Level
}

var current *sink

// InitWithTeaLog opens path for appending through tea.LogToFile and
// sends every message there. The returned func closes the file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	current = &sink{out: f, enabled: true}
	return func() { _ = f.Close() }, nil
}

// InitWriter sends messages to w.
func InitWriter(w io.Writer) {
	current = &sink{out: w, enabled: true}
}

// Reset turns logging off until the next Init call.
func Reset() {
	current = nil
}

// SetEnabled pauses or resumes output without dropping the sink.
func SetEnabled(enabled bool) {
	if s := current; s != nil {
		s.mu.Lock()
		s.enabled = enabled
		s.mu.Unlock()
	}
}

// SetMinLevel drops messages below level.
func SetMinLevel(level Level) {
	if s := current; s != nil {
		s.mu.Lock()
		s.minLevel = level
		s.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }
func Info(cat Category, msg string, fields ...any)  { write(LevelInfo, cat, msg, fields) }
func Warn(cat Category, msg string, fields ...any)  { write(LevelWarn, cat, msg, fields) }
func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	text := "<nil>"
	if err != nil {
		text = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", text))
}

// write emits one line:
//
//	2026-01-02T15:04:05 [WARN] [history] reload failed path=/x error=...
func write(level Level, cat Category, msg string, fields []any) {
	s := current
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || level < s.minLevel || s.out == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			fmt.Fprintf(&b, " %v=<missing>", fields[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	b.WriteByte('\n')
	_, _ = io.WriteString(s.out, b.String())
}
