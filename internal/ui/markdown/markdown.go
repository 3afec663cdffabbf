// Package markdown renders diagnostic reports for the TUI and CLI,
// styled per the ui section of the config.
package markdown

import (
	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/diagdash/internal/config"
)

// DefaultWidth is the word wrap width used when the caller passes none,
// sized for report output on a typical terminal.
const DefaultWidth = 100

// noMarginStyle is a JSON style that removes document margins so
// reports sit flush inside the dashboard viewport.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour configured from UIConfig.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer wrapping at width (<= 0 uses
// DefaultWidth) with ui.markdown_style ("dark" when unset).
// A fixed style is used instead of WithAutoStyle() to avoid terminal
// OSC queries: WithAutoStyle() detects light/dark background by
// querying the terminal, which causes escape sequence responses to
// leak into the input stream.
func New(width int, ui config.UIConfig) (*Renderer, error) {
	style := ui.MarkdownStyle
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
