package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/spf13/cobra"

	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/markdown"
)

var keysShort bool

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the key bindings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		km := lineedit.DefaultKeyMap()
		if keysShort {
			h := help.New()
			h.Width = outputWidth()
			_, err := fmt.Fprintln(cmd.OutOrStdout(), h.View(km))
			return err
		}

		r, err := markdown.New(outputWidth())
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := r.Render(keysMarkdown(km))
		if err != nil {
			return fmt.Errorf("rendering keys: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().BoolVar(&keysShort, "short", false, "print a one-line summary")
}

// keysMarkdown lists every binding of km as a markdown table.
func keysMarkdown(km lineedit.KeyMap) string {
	var b strings.Builder
	b.WriteString("# Key bindings\n\n")
	b.WriteString("| Keys | Action |\n|---|---|\n")
	for _, group := range km.FullHelp() {
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			keys := make([]string, 0, len(binding.Keys()))
			for _, k := range binding.Keys() {
				keys = append(keys, "`"+k+"`")
			}
			fmt.Fprintf(&b, "| %s | %s |\n", strings.Join(keys, ", "), binding.Help().Desc)
		}
	}
	b.WriteString("\nAny other printable key is inserted at the cursor. Pasted text is inserted as typed.\n")
	return b.String()
}
