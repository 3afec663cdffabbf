package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagdash/internal/systems/generic"
	"github.com/zjrosen/diagdash/internal/systems/sensor"
)

func TestBuildRegistry(t *testing.T) {
	reg, err := buildRegistry()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, info := range reg.Systems() {
		names = append(names, info.Name)
	}
	require.Contains(t, names, sensor.Name)
	require.Contains(t, names, generic.Name)
}

func TestSubcommandsRegistered(t *testing.T) {
	expected := map[string]bool{
		"run":     false,
		"systems": false,
		"report":  false,
		"plot":    false,
		"history": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := expected[c.Name()]; ok {
			expected[c.Name()] = true
		}
	}
	for name, found := range expected {
		require.True(t, found, "expected subcommand %q to be registered", name)
	}
}

func TestHelpExamplesResolve(t *testing.T) {
	reg, err := buildRegistry()
	require.NoError(t, err)

	// Every name quoted in command help must actually be registered.
	_, err = reg.Report(sensor.Name, "sensor_health_report")
	require.NoError(t, err)
	require.Contains(t, reportCmd.Long, "sensor_health_report")

	_, err = reg.Report(generic.Name, "summary_report")
	require.NoError(t, err)
	require.Contains(t, reportCmd.Long, "summary_report")

	_, err = reg.Plot(sensor.Name, "temperature_timeseries")
	require.NoError(t, err)
	require.Contains(t, plotCmd.Long, "temperature_timeseries")

	_, err = reg.Plot(generic.Name, "null_counts")
	require.NoError(t, err)
	require.Contains(t, plotCmd.Long, "null_counts")
}

func TestResolvePlotWidth(t *testing.T) {
	require.Equal(t, 60, resolvePlotWidth(60, 100), "flag wins over config")
	require.Equal(t, 100, resolvePlotWidth(0, 100), "config used when flag unset")
	require.Equal(t, 80, resolvePlotWidth(0, 0), "default when neither set")
}

func TestNewRunnerDisabledTracing(t *testing.T) {
	reg, err := buildRegistry()
	require.NoError(t, err)

	run, shutdown, err := newRunner(reg)
	require.NoError(t, err)
	require.NotNil(t, run)
	shutdown()
}
