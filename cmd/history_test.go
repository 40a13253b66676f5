package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ripline/internal/history"
)

func TestPrintHistory(t *testing.T) {
	at := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	entries := []history.Entry{
		{ID: 7, Line: "git status", CreatedAt: at},
		{ID: 42, Line: "a very long command line that will not fit", CreatedAt: at},
	}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, entries, 40))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	require.Contains(t, lines[0], "7")
	require.Contains(t, lines[0], at.Local().Format("2006-01-02 15:04"))
	require.True(t, strings.HasSuffix(lines[0], "git status"))

	require.Contains(t, lines[1], "42")
	require.NotContains(t, lines[1], "will not fit")
	require.True(t, strings.HasSuffix(lines[1], "…"))
}

func TestPrintHistory_NarrowTerminalKeepsMinimum(t *testing.T) {
	var buf bytes.Buffer
	entries := []history.Entry{{ID: 1, Line: "abcdefghijklmnop", CreatedAt: time.Now()}}
	require.NoError(t, printHistory(&buf, entries, 5))
	require.Contains(t, buf.String(), "abcdefghi…")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil, 80))
	require.Empty(t, buf.String())
}
