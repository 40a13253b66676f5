// Package config provides configuration types and defaults for ripline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"

	"github.com/zjrosen/ripline/internal/log"
)

// Terminal modes.
const (
	ModeInline     = "inline"
	ModeFullscreen = "fullscreen"
)

// Config holds all configuration options for ripline.
type Config struct {
	Prompt     string           `mapstructure:"prompt"`
	Terminal   TerminalConfig   `mapstructure:"terminal"`
	History    HistoryConfig    `mapstructure:"history"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Completion CompletionConfig `mapstructure:"completion"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// TerminalConfig selects how the editor talks to the terminal.
type TerminalConfig struct {
	// Mode is "inline" (edit on the current row, default) or "fullscreen".
	Mode           string `mapstructure:"mode"`
	BracketedPaste bool   `mapstructure:"bracketed_paste"`
}

// HistoryConfig controls persistent history.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database file.
	// Default: ~/.local/share/ripline/history.db
	Path      string `mapstructure:"path"`
	MaxListed int    `mapstructure:"max_listed"` // entries shown by `ripline history`
}

// ThemeConfig holds colors for the prompt and line.
type ThemeConfig struct {
	Prompt         string `mapstructure:"prompt"`          // color name or hex, e.g. "#10B981"
	HighlightStyle string `mapstructure:"highlight_style"` // chroma style name, "" disables highlighting
	Error          string `mapstructure:"error"`
}

// CompletionConfig holds the words offered on Tab.
type CompletionConfig struct {
	Words []string `mapstructure:"words"`
	// Fuzzy ranks fuzzy matches when no word has the typed prefix.
	Fuzzy bool `mapstructure:"fuzzy"`
}

// TracingConfig holds tracing configuration for read-line sessions.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/ripline/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns ~/.config/ripline/traces/traces.jsonl, or
// "" if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ripline", "traces", "traces.jsonl")
}

// DefaultHistoryPath returns ~/.local/share/ripline/history.db, or "" if
// the home directory is unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "ripline", "history.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Prompt: "> ",
		Terminal: TerminalConfig{
			Mode:           ModeInline,
			BracketedPaste: true,
		},
		History: HistoryConfig{
			Enabled:   true,
			Path:      DefaultHistoryPath(),
			MaxListed: 50,
		},
		Theme: ThemeConfig{
			Prompt:         "green",
			HighlightStyle: "monokai",
			Error:          "red",
		},
		Completion: CompletionConfig{
			Fuzzy: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateTerminal(c.Terminal); err != nil {
		return err
	}
	if err := ValidateHistory(c.History); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTerminal checks the terminal mode.
func ValidateTerminal(t TerminalConfig) error {
	switch t.Mode {
	case "", ModeInline, ModeFullscreen:
		return nil
	default:
		return fmt.Errorf("terminal.mode must be %q or %q, got %q", ModeInline, ModeFullscreen, t.Mode)
	}
}

// ValidateHistory checks history configuration for errors.
func ValidateHistory(h HistoryConfig) error {
	if h.MaxListed < 0 {
		return fmt.Errorf("history.max_listed must not be negative, got %d", h.MaxListed)
	}
	if h.Enabled && h.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// ValidateTheme checks that colors parse and the highlight style exists.
func ValidateTheme(t ThemeConfig) error {
	for key, value := range map[string]string{"theme.prompt": t.Prompt, "theme.error": t.Error} {
		if value != "" && tcell.GetColor(value) == tcell.ColorDefault {
			return fmt.Errorf("%s: unknown color %q", key, value)
		}
	}
	if t.HighlightStyle != "" && !hasStyle(t.HighlightStyle) {
		return fmt.Errorf("theme.highlight_style: unknown style %q (available: %s)",
			t.HighlightStyle, strings.Join(styles.Names(), ", "))
	}
	return nil
}

func hasStyle(name string) bool {
	for _, n := range styles.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# ripline configuration

# Prompt shown before the line
prompt: "> "

terminal:
  mode: inline           # "inline" (default) or "fullscreen"
  bracketed_paste: true  # Deliver pasted text as one insertion

history:
  enabled: true
  # path: ~/.local/share/ripline/history.db
  max_listed: 50         # Entries shown by "ripline history"

theme:
  prompt: green             # Color name or hex
  highlight_style: monokai  # Chroma style, empty disables highlighting
  error: red

completion:
  fuzzy: true            # Fall back to fuzzy matches when no word has the typed prefix
  words: []              # Extra words offered on Tab, alongside words from history

# Tracing of read-line sessions
# tracing:
#   enabled: true
#   exporter: file       # "none", "file", "stdout", or "otlp"
#   file_path: ~/.config/ripline/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
