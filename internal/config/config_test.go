package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/diagdash/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.True(t, cfg.AutoRefresh)
	require.Equal(t, 300, cfg.DebounceMS)
	require.True(t, cfg.History.Enabled)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.Equal(t, "#28a745", cfg.Theme.PassColor)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidateTheme(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{}))
	require.NoError(t, ValidateTheme(ThemeConfig{PassColor: "#00FF00"}))

	err := ValidateTheme(ThemeConfig{FailColor: "red"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "theme.fail_color")

	require.Error(t, ValidateTheme(ThemeConfig{WarningColor: "#ffc"}))
}

func TestValidateUI(t *testing.T) {
	require.NoError(t, ValidateUI(UIConfig{}))
	require.NoError(t, ValidateUI(UIConfig{MarkdownStyle: "light"}))

	err := ValidateUI(UIConfig{MarkdownStyle: "neon"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "markdown_style")

	require.Error(t, ValidateUI(UIConfig{PlotWidth: -1}))
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.Config{}))
	require.NoError(t, ValidateTracing(tracing.Config{Exporter: "stdout"}))

	err := ValidateTracing(tracing.Config{Exporter: "otlp"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.exporter")

	err = ValidateTracing(tracing.Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path")

	require.NoError(t, ValidateTracing(tracing.Config{
		Enabled:  true,
		Exporter: "file",
		FilePath: "/tmp/traces.jsonl",
	}))
}

func TestConfigValidate(t *testing.T) {
	cfg := Defaults()
	cfg.DebounceMS = -5
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.History.Path = ""
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "history.path")

	cfg = Defaults()
	cfg.History.Enabled = false
	cfg.History.Path = ""
	require.NoError(t, cfg.Validate())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed struct {
		AutoRefresh bool `yaml:"auto_refresh"`
		DebounceMS  int  `yaml:"debounce_ms"`
		History     struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"history"`
		Theme struct {
			PassColor string `yaml:"pass_color"`
		} `yaml:"theme"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.True(t, parsed.AutoRefresh)
	require.Equal(t, 300, parsed.DebounceMS)
	require.True(t, parsed.History.Enabled)
	require.Equal(t, "#28a745", parsed.Theme.PassColor)

	// Comments survive in the written file.
	require.Contains(t, string(data), "# Run history persistence")

	// Refuses to clobber an existing file.
	require.Error(t, WriteDefaultConfig(path))
}
