package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/ripline/internal/config"
	"github.com/zjrosen/ripline/internal/history"
	"github.com/zjrosen/ripline/internal/lineedit"
	"github.com/zjrosen/ripline/internal/log"
	"github.com/zjrosen/ripline/internal/terminal"
	"github.com/zjrosen/ripline/internal/tracing"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ripline",
	Short: "An interactive line editor REPL",
	Long: `ripline reads lines with emacs-style editing, syntax highlighting,
tab completion and persistent history, and echoes each accepted line.

Press ctrl+d on an empty line to exit. Run "ripline keys" for the key bindings.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runRepl,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/ripline/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (path from RIPLINE_LOG, default debug.log)")
	rootCmd.Flags().StringP("prompt", "p", "", "prompt shown before the line")
	rootCmd.Flags().StringP("mode", "m", "", `terminal mode: "inline" or "fullscreen"`)
	rootCmd.Flags().Bool("no-history", false, "do not read or write persistent history")

	_ = viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))
	_ = viper.BindPFlag("terminal.mode", rootCmd.Flags().Lookup("mode"))
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("prompt", defaults.Prompt)
	v.SetDefault("terminal.mode", defaults.Terminal.Mode)
	v.SetDefault("terminal.bracketed_paste", defaults.Terminal.BracketedPaste)
	v.SetDefault("history.enabled", defaults.History.Enabled)
	v.SetDefault("history.path", defaults.History.Path)
	v.SetDefault("history.max_listed", defaults.History.MaxListed)
	v.SetDefault("theme.prompt", defaults.Theme.Prompt)
	v.SetDefault("theme.highlight_style", defaults.Theme.HighlightStyle)
	v.SetDefault("theme.error", defaults.Theme.Error)
	v.SetDefault("completion.fuzzy", defaults.Completion.Fuzzy)
	v.SetDefault("completion.words", defaults.Completion.Words)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", config.DefaultTracesFilePath())
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
}

// userConfigPath returns ~/.config/ripline/config.yaml.
func userConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ripline", "config.yaml")
}

func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .ripline/config.yaml (current directory)
		// 2. ~/.config/ripline/config.yaml (user config)
		if _, err := os.Stat(".ripline/config.yaml"); err == nil {
			viper.SetConfigFile(".ripline/config.yaml")
		} else {
			viper.AddConfigPath(filepath.Dir(userConfigPath()))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the user default
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := userConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePath is the file config subcommands write to.
func configFilePath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	return userConfigPath()
}

// initLogging enables debug logging when --debug or RIPLINE_DEBUG is set.
func initLogging(prefix string) (func(), error) {
	if !debugFlag && os.Getenv("RIPLINE_DEBUG") == "" {
		return func() {}, nil
	}
	logPath := os.Getenv("RIPLINE_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(os.Getenv("RIPLINE_LOG_LEVEL")))
	log.Info(log.CatConfig, "ripline starting", "version", version, "logPath", logPath)
	return cleanup, nil
}

func runRepl(cmd *cobra.Command, _ []string) error {
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := initLogging("ripline")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(cmd.Context()) }()

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer func() { _ = store.Close() }()
		defer watchHistory(cmd.Context(), store, cfg.History.Path)()
	}

	transport, out, closeTransport, err := newTransport(cfg.Terminal)
	if err != nil {
		return err
	}
	defer closeTransport()

	r := newREPL(cfg, store, transport, out)
	if provider.Enabled() {
		r.tracer = provider.Tracer()
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var next config.Config
		if err := viper.Unmarshal(&next); err != nil {
			log.ErrorErr(log.CatConfig, "config reload failed", err, "path", e.Name)
			return
		}
		if err := next.Validate(); err != nil {
			log.ErrorErr(log.CatConfig, "reloaded config is invalid", err, "path", e.Name)
			return
		}
		log.Info(log.CatConfig, "config reloaded", "path", e.Name)
		r.reload(next)
	})
	if viper.ConfigFileUsed() != "" {
		viper.WatchConfig()
	}

	return r.run(cmd.Context())
}

// newTransport builds the terminal transport for mode. out receives echoed
// lines so they land in the right place for that mode.
func newTransport(tc config.TerminalConfig) (lineedit.Transport, io.Writer, func(), error) {
	if tc.Mode == config.ModeFullscreen {
		screen, err := terminal.NewScreen()
		if err != nil {
			return nil, nil, nil, err
		}
		return screen, screen, func() { _ = screen.Close() }, nil
	}
	inline := terminal.NewStdio(terminal.WithBracketedPaste(tc.BracketedPaste))
	return inline, os.Stdout, func() {}, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
