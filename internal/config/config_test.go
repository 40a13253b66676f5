package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// loadConfigFile reads path with viper on top of Defaults, the way the
// root command does.
func loadConfigFile(t *testing.T, path string) Config {
	t.Helper()

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return loadConfigFile(t, configPath)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "> ", cfg.Prompt)
	require.Equal(t, ModeInline, cfg.Terminal.Mode)
	require.True(t, cfg.Terminal.BracketedPaste)
	require.True(t, cfg.History.Enabled)
	require.Equal(t, 50, cfg.History.MaxListed)
	require.Equal(t, "monokai", cfg.Theme.HighlightStyle)
	require.True(t, cfg.Completion.Fuzzy)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, cfg.Validate())
}

func TestDefaultHistoryPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	require.Equal(t, filepath.Join("/home/tester", ".local", "share", "ripline", "history.db"), DefaultHistoryPath())
	require.Equal(t, filepath.Join("/home/tester", ".config", "ripline", "traces", "traces.jsonl"), DefaultTracesFilePath())
}

func TestValidateTerminal(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{mode: "", wantErr: false},
		{mode: ModeInline, wantErr: false},
		{mode: ModeFullscreen, wantErr: false},
		{mode: "split", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			err := ValidateTerminal(TerminalConfig{Mode: tt.mode})
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "terminal.mode")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateHistory(t *testing.T) {
	require.NoError(t, ValidateHistory(HistoryConfig{Enabled: true, Path: "/tmp/h.db"}))
	require.NoError(t, ValidateHistory(HistoryConfig{Enabled: false}), "disabled history needs no path")

	err := ValidateHistory(HistoryConfig{Enabled: true})
	require.Error(t, err)
	require.Contains(t, err.Error(), "history.path is required")

	err = ValidateHistory(HistoryConfig{MaxListed: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_listed")
}

func TestValidateTheme(t *testing.T) {
	tests := []struct {
		name    string
		theme   ThemeConfig
		wantErr string
	}{
		{name: "empty", theme: ThemeConfig{}},
		{name: "named colors", theme: ThemeConfig{Prompt: "green", Error: "red"}},
		{name: "hex color", theme: ThemeConfig{Prompt: "#10B981"}},
		{name: "known style", theme: ThemeConfig{HighlightStyle: "monokai"}},
		{name: "bad prompt color", theme: ThemeConfig{Prompt: "not-a-color"}, wantErr: "theme.prompt"},
		{name: "bad error color", theme: ThemeConfig{Error: "not-a-color"}, wantErr: "theme.error"},
		{name: "unknown style", theme: ThemeConfig{HighlightStyle: "no-such-style"}, wantErr: "theme.highlight_style"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTheme(tt.theme)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{name: "zero value", tracing: TracingConfig{}},
		{name: "defaults", tracing: Defaults().Tracing},
		{name: "sample rate too low", tracing: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "sample rate too high", tracing: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "unknown exporter", tracing: TracingConfig{Exporter: "jaeger"}, wantErr: "tracing.exporter"},
		{
			name:    "file exporter without path",
			tracing: TracingConfig{Enabled: true, Exporter: "file"},
			wantErr: "tracing.file_path is required",
		},
		{
			name:    "otlp exporter without endpoint",
			tracing: TracingConfig{Enabled: true, Exporter: "otlp"},
			wantErr: "tracing.otlp_endpoint is required",
		},
		{
			name:    "disabled file exporter without path",
			tracing: TracingConfig{Enabled: false, Exporter: "file"},
		},
		{
			name:    "stdout exporter",
			tracing: TracingConfig{Enabled: true, Exporter: "stdout", SampleRate: 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsFirstSection(t *testing.T) {
	cfg := Defaults()
	cfg.History.Path = "/tmp/h.db"
	cfg.Terminal.Mode = "split"
	cfg.Tracing.SampleRate = 2

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "terminal.mode")
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
prompt: "$ "
terminal:
  mode: fullscreen
history:
  path: /var/tmp/ripline.db
completion:
  words: [checkout, commit]
`)

	require.Equal(t, "$ ", cfg.Prompt)
	require.Equal(t, ModeFullscreen, cfg.Terminal.Mode)
	require.True(t, cfg.Terminal.BracketedPaste, "unset keys keep defaults")
	require.Equal(t, "/var/tmp/ripline.db", cfg.History.Path)
	require.Equal(t, 50, cfg.History.MaxListed)
	require.Equal(t, []string{"checkout", "commit"}, cfg.Completion.Words)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigTemplate_Loads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())
	defaults := Defaults()

	require.Equal(t, defaults.Prompt, cfg.Prompt)
	require.Equal(t, defaults.Terminal, cfg.Terminal)
	require.Equal(t, defaults.History, cfg.History)
	require.Equal(t, defaults.Theme, cfg.Theme)
	require.Equal(t, defaults.Tracing, cfg.Tracing)
	require.Empty(t, cfg.Completion.Words)
	require.NoError(t, cfg.Validate())
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "ripline", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
