package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zjrosen/ripline/internal/history"
)

var (
	historyLimit   int
	historySession string
	historyClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored lines",
	Long: `List the newest lines from persistent history, oldest first.

Examples:
  ripline history              # newest history.max_listed lines
  ripline history -n 0         # everything
  ripline history --session ID # lines from one session
  ripline history --clear      # delete all history`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", -1,
		"number of lines to show, 0 for all (default history.max_listed)")
	historyCmd.Flags().StringVarP(&historySession, "session", "s", "", "only show lines from this session")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all stored lines")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled (history.enabled: false)")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = store.Close() }()

	if historyClear {
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return err
	}

	limit := historyLimit
	if limit < 0 {
		limit = cfg.History.MaxListed
	}
	entries, err := store.List(cmd.Context(), historySession, limit)
	if err != nil {
		return err
	}
	return printHistory(cmd.OutOrStdout(), entries, outputWidth())
}

var (
	historyIDStyle   = lipgloss.NewStyle().Faint(true)
	historyTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
)

const (
	historyIDWidth   = 6
	historyTimeWidth = len("2006-01-02 15:04")
	historyMinLine   = 10
)

// printHistory writes one row per entry, truncating lines to width.
func printHistory(w io.Writer, entries []history.Entry, width int) error {
	lineWidth := max(width-historyIDWidth-historyTimeWidth-4, historyMinLine)
	for _, e := range entries {
		id := historyIDStyle.Render(fmt.Sprintf("%*d", historyIDWidth, e.ID))
		at := historyTimeStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04"))
		line := truncate.StringWithTail(e.Line, uint(lineWidth), "…")
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", id, at, line); err != nil {
			return err
		}
	}
	return nil
}

// outputWidth returns the width of stdout, or 80 when it is not a terminal.
func outputWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
