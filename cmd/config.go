package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zjrosen/ripline/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFilePath()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		return err
	},
}

var configSetPromptCmd = &cobra.Command{
	Use:   "set-prompt PROMPT",
	Short: "Set the prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return config.SavePrompt(configFilePath(), args[0])
	},
}

var configSetStyleCmd = &cobra.Command{
	Use:   "set-style STYLE",
	Short: "Set the chroma highlight style",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return config.SaveHighlightStyle(configFilePath(), args[0])
	},
}

var configAddWordCmd = &cobra.Command{
	Use:   "add-word WORD...",
	Short: "Add words offered on tab completion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return config.SaveCompletionWords(configFilePath(), mergeWords(cfg.Completion.Words, args))
	},
}

// mergeWords appends the words in add that are not already in words.
func mergeWords(words, add []string) []string {
	out := slices.Clone(words)
	for _, w := range add {
		if w != "" && !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd, configSetPromptCmd, configSetStyleCmd, configAddWordCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
}
