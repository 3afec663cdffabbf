// Package config provides configuration types and defaults for diagdash.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zjrosen/diagdash/internal/tracing"
)

// Config holds all configuration options for diagdash.
type Config struct {
	// DataPath is the CSV or JSON file to load diagnostics data from.
	DataPath string `mapstructure:"data_path"`

	// AutoRefresh re-runs diagnostics when the data file changes on disk.
	AutoRefresh bool `mapstructure:"auto_refresh"`

	// DebounceMS is the delay before reacting to a file change burst.
	DebounceMS int `mapstructure:"debounce_ms"`

	History HistoryConfig  `mapstructure:"history"`
	UI      UIConfig       `mapstructure:"ui"`
	Theme   ThemeConfig    `mapstructure:"theme"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// HistoryConfig holds run history persistence options.
type HistoryConfig struct {
	// Enabled controls whether run summaries are saved to SQLite.
	Enabled bool `mapstructure:"enabled"`

	// Path is the SQLite database file.
	// Default: ~/.diagdash/history.db
	Path string `mapstructure:"path"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowDetails   bool   `mapstructure:"show_details"`   // Show result detail payloads
	PlotWidth     int    `mapstructure:"plot_width"`     // 0 = fit to terminal
}

// ThemeConfig holds status color overrides as hex colors.
type ThemeConfig struct {
	PassColor    string `mapstructure:"pass_color"`
	FailColor    string `mapstructure:"fail_color"`
	WarningColor string `mapstructure:"warning_color"`
	ErrorColor   string `mapstructure:"error_color"`
}

// Defaults returns the configuration used when no config file exists.
func Defaults() Config {
	return Config{
		AutoRefresh: true,
		DebounceMS:  300,
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowDetails:   true,
		},
		Theme: ThemeConfig{
			PassColor:    "#28a745",
			FailColor:    "#dc3545",
			WarningColor: "#ffc107",
			ErrorColor:   "#6c757d",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultHistoryPath returns the default path for the run history database.
// Returns ~/.diagdash/history.db or empty string if home dir unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".diagdash", "history.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/diagdash/traces/traces.jsonl or empty string if home
// dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "diagdash", "traces", "traces.jsonl")
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateTheme checks theme configuration for errors.
// Returns nil if colors are valid or empty (will use defaults).
func ValidateTheme(theme ThemeConfig) error {
	colors := map[string]string{
		"theme.pass_color":    theme.PassColor,
		"theme.fail_color":    theme.FailColor,
		"theme.warning_color": theme.WarningColor,
		"theme.error_color":   theme.ErrorColor,
	}
	for key, value := range colors {
		if value == "" {
			continue
		}
		if !hexColor.MatchString(value) {
			return fmt.Errorf("%s must be a hex color like \"#28a745\", got %q", key, value)
		}
	}
	return nil
}

// ValidateUI checks user interface configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	if ui.PlotWidth < 0 {
		return fmt.Errorf("ui.plot_width must not be negative, got %d", ui.PlotWidth)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.Exporter != "" {
		switch tc.Exporter {
		case "file", "stdout":
		default:
			return fmt.Errorf("tracing.exporter must be \"file\" or \"stdout\", got %q", tc.Exporter)
		}
	}
	if tc.Enabled && tc.Exporter == "file" && tc.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}
	return nil
}

// Validate checks the full configuration for errors.
func (c Config) Validate() error {
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}
