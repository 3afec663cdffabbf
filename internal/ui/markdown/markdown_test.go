package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagdash/internal/config"
)

func TestNew(t *testing.T) {
	r, err := New(80, config.UIConfig{})
	require.NoError(t, err, "unexpected error")
	require.NotNil(t, r, "expected non-nil renderer")
	require.Equal(t, 80, r.Width())
}

func TestNewDefaultWidth(t *testing.T) {
	r, err := New(0, config.Defaults().UI)
	require.NoError(t, err, "unexpected error")
	require.Equal(t, DefaultWidth, r.Width())
}

func TestNewLightStyle(t *testing.T) {
	r, err := New(60, config.UIConfig{MarkdownStyle: "light"})
	require.NoError(t, err, "unexpected error")
	require.Equal(t, 60, r.Width())
}

func TestRenderer_Render_Heading(t *testing.T) {
	r, err := New(80, config.Defaults().UI)
	require.NoError(t, err, "New error")

	result, err := r.Render("# Sensor Health\n\nAll sensors nominal")
	require.NoError(t, err, "Render error")

	require.Contains(t, result, "Sensor Health", "expected result to contain heading")
	require.Contains(t, result, "All sensors nominal", "expected result to contain body")
}

func TestRenderer_Render_List(t *testing.T) {
	r, err := New(80, config.Defaults().UI)
	require.NoError(t, err, "New error")

	result, err := r.Render("- battery: 85%\n- temperature: 22.5")
	require.NoError(t, err, "Render error")

	require.Contains(t, result, "battery", "expected result to contain list item")
	require.Contains(t, result, "temperature", "expected result to contain list item")
}
