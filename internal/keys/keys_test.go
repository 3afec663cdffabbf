package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Up uses k and up", binding: km.Up, expected: []string{"k", "up"}},
		{name: "Down uses j and down", binding: km.Down, expected: []string{"j", "down"}},
		{name: "NextTab uses tab", binding: km.NextTab, expected: []string{"tab"}},
		{name: "PrevTab uses shift+tab", binding: km.PrevTab, expected: []string{"shift+tab"}},
		{name: "Run uses enter", binding: km.Run, expected: []string{"enter"}},
		{name: "Refresh uses r", binding: km.Refresh, expected: []string{"r"}},
		{name: "Quit uses q and ctrl+c", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()

	for name, binding := range map[string]key.Binding{
		"Up": km.Up, "Down": km.Down, "Run": km.Run,
		"Refresh": km.Refresh, "Help": km.Help, "Quit": km.Quit,
	} {
		help := binding.Help()
		require.NotEmpty(t, help.Key, "%s key help should not be empty", name)
		require.NotEmpty(t, help.Desc, "%s description should not be empty", name)
	}
}
