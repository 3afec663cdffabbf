package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/diagdash/internal/config"
	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/log"
	"github.com/zjrosen/diagdash/internal/runner"
	"github.com/zjrosen/diagdash/internal/systems"
	"github.com/zjrosen/diagdash/internal/tracing"
	"github.com/zjrosen/diagdash/internal/ui/dashboard"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "diagdash",
	Short:   "A terminal dashboard for data diagnostics",
	Long:    `A terminal user interface for running diagnostic test suites against CSV or JSON data, with plots, reports, and run history.`,
	Version: version,
	RunE:    runDashboard,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .diagdash/config.yaml or ~/.config/diagdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging to diagdash.log")
	rootCmd.PersistentFlags().StringP("data", "d", "",
		"path to CSV or JSON data file")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic re-run when the data file changes")

	// Bind flags to viper
	_ = viper.BindPFlag("data_path", rootCmd.PersistentFlags().Lookup("data"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("debounce_ms", defaults.DebounceMS)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.path", defaults.History.Path)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.show_details", defaults.UI.ShowDetails)
	viper.SetDefault("theme.pass_color", defaults.Theme.PassColor)
	viper.SetDefault("theme.fail_color", defaults.Theme.FailColor)
	viper.SetDefault("theme.warning_color", defaults.Theme.WarningColor)
	viper.SetDefault("theme.error_color", defaults.Theme.ErrorColor)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .diagdash/config.yaml (current directory)
		// 2. ~/.config/diagdash/config.yaml (user config)
		if _, err := os.Stat(".diagdash/config.yaml"); err == nil {
			viper.SetConfigFile(".diagdash/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "diagdash"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .diagdash/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".diagdash/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging enables file logging when debug mode is requested via
// flag or environment. Returns a cleanup func.
func initLogging() (func(), error) {
	debug := os.Getenv("DIAGDASH_DEBUG") != "" || debugFlag
	if !debug {
		return func() {}, nil
	}
	logPath := os.Getenv("DIAGDASH_LOG")
	if logPath == "" {
		logPath = "diagdash.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "Diagdash starting", "version", version, "logPath", logPath)
	return cleanup, nil
}

// buildRegistry returns a registry populated with every built-in system.
func buildRegistry() (*diag.Registry, error) {
	reg := diag.NewRegistry()
	if err := systems.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("registering systems: %w", err)
	}
	return reg, nil
}

// newRunner builds a runner with tracing attached per config.
// The returned shutdown func flushes the trace exporter.
func newRunner(reg *diag.Registry) (*runner.Runner, func(), error) {
	run := runner.New(reg)

	tcfg := cfg.Tracing
	if tcfg.Enabled && tcfg.Exporter == "file" && tcfg.FilePath == "" {
		tcfg.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	if provider.Enabled() {
		run.SetTracer(provider.Tracer())
	}
	shutdown := func() {
		_ = provider.Shutdown(context.Background())
	}
	return run, shutdown, nil
}

// loadData loads the configured data file, or returns nil when no path
// is set (the dashboard can start without data).
func loadData() (*dataset.Dataset, error) {
	if cfg.DataPath == "" {
		return nil, nil
	}
	ds, err := dataset.LoadFile(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}
	return ds, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	run, shutdownTracing, err := newRunner(reg)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	ds, err := loadData()
	if err != nil {
		return err
	}

	model := dashboard.New(reg, run, cfg, ds, cfg.DataPath)
	if err := model.StartWatcher(); err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to start watcher", err, "path", cfg.DataPath)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
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
