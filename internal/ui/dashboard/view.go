package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/ui/styles"
)

const (
	sidebarWidth = 24
	headerHeight = 3
	footerHeight = 2
)

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	content := styles.ContentStyle.Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("diagdash")
	meta := ""
	if m.ds != nil {
		meta = styles.HelpStyle.Render(fmt.Sprintf("  %s  %s", m.dataPath, m.ds.Shape()))
	}

	tabs := make([]string, len(tabTitles))
	for i, name := range tabTitles {
		if Tab(i) == m.tab {
			tabs[i] = styles.ActiveTabStyle.Render(name)
		} else {
			tabs[i] = styles.TabStyle.Render(name)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title+meta,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Systems"))
	b.WriteString("\n\n")

	for i, sys := range m.systems {
		marker := "  "
		name := truncate.StringWithTail(sys.Name, sidebarWidth-6, "…")
		line := name
		if summary, ok := m.summaries[sys.Name]; ok {
			if summary.Failed() {
				line += " " + m.theme.Fail.Render("✗")
			} else {
				line += " " + m.theme.Pass.Render("✓")
			}
		}
		if i == m.selected {
			marker = styles.SelectedItemStyle.Render("> ")
			line = styles.SelectedItemStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	if len(m.systems) == 0 {
		b.WriteString(styles.HelpStyle.Render("no systems registered"))
	}

	height := m.height - headerHeight - footerHeight
	if height < 3 {
		height = 3
	}
	return styles.SidebarFocusedStyle.Width(sidebarWidth).Height(height).Render(b.String())
}

func (m Model) renderFooter() string {
	if m.showHelp {
		bindings := []string{
			m.keys.Up.Help().Key + " " + m.keys.Up.Help().Desc,
			m.keys.Down.Help().Key + " " + m.keys.Down.Help().Desc,
			m.keys.NextTab.Help().Key + " " + m.keys.NextTab.Help().Desc,
			m.keys.Run.Help().Key + " " + m.keys.Run.Help().Desc,
			m.keys.Refresh.Help().Key + " " + m.keys.Refresh.Help().Desc,
			m.keys.ToggleDetails.Help().Key + " " + m.keys.ToggleDetails.Help().Desc,
			m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
		}
		return styles.HelpStyle.Render(strings.Join(bindings, " · "))
	}
	return styles.HelpStyle.Render("enter run · tab switch · r reload · ? help · q quit")
}

// refreshContent rebuilds the viewport content for the active tab.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	switch m.tab {
	case TabPlots:
		m.viewport.SetContent(m.plotsContent())
	case TabReports:
		m.viewport.SetContent(m.reportsContent())
	default:
		m.viewport.SetContent(m.resultsContent())
	}
	m.viewport.GotoTop()
}

func (m Model) resultsContent() string {
	if m.running {
		return "Running diagnostics..."
	}
	if m.lastErr != nil {
		return m.theme.Error.Render("error: ") + m.lastErr.Error()
	}
	name := m.SelectedSystem()
	if name == "" {
		return "No systems registered."
	}
	summary, ok := m.summaries[name]
	if !ok {
		if m.ds == nil {
			return "No data loaded. Pass --data or set data_path in config."
		}
		return "Press enter to run diagnostics."
	}

	var b strings.Builder
	b.WriteString(m.metricsLine(summary))
	b.WriteString("\n\n")
	for _, res := range summary.Results {
		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			m.theme.StatusLabel(res.Status),
			styles.TitleStyle.Render(res.TestName),
			res.Message,
		))
		if m.showDetails && len(res.Details) > 0 {
			for _, k := range sortedKeys(res.Details) {
				b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("       %s: %v\n", k, res.Details[k])))
			}
		}
	}
	return b.String()
}

func (m Model) metricsLine(summary diag.Summary) string {
	parts := []string{
		fmt.Sprintf("%d tests", len(summary.Results)),
		m.theme.Pass.Render(fmt.Sprintf("%d passed", summary.PassCount())),
		m.theme.Fail.Render(fmt.Sprintf("%d failed", summary.FailCount())),
		m.theme.Warning.Render(fmt.Sprintf("%d warnings", summary.WarningCount())),
		m.theme.Error.Render(fmt.Sprintf("%d errors", summary.ErrorCount())),
		summary.Duration.Round(time.Millisecond).String(),
	}
	return strings.Join(parts, " · ")
}

// sortedKeys returns detail keys in a stable display order.
func sortedKeys(details map[string]any) []string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// plotRenderWidth fits charts to the viewport unless ui.plot_width caps
// them narrower.
func (m Model) plotRenderWidth() int {
	width := m.viewport.Width - 2
	if m.cfg.UI.PlotWidth > 0 && m.cfg.UI.PlotWidth < width {
		width = m.cfg.UI.PlotWidth
	}
	return width
}

func (m Model) plotsContent() string {
	name := m.SelectedSystem()
	if name == "" || m.ds == nil {
		return "Nothing to plot."
	}
	plots, err := m.registry.Plots(name)
	if err != nil {
		return m.theme.Error.Render("error: ") + err.Error()
	}
	if len(plots) == 0 {
		return "No plots registered for this system."
	}

	width := m.plotRenderWidth()
	var b strings.Builder
	for i, info := range plots {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fig, err := m.runner.RenderPlot(name, info.Name, m.ds)
		if err != nil {
			b.WriteString(m.theme.Error.Render(fmt.Sprintf("plot %s failed: ", info.Name)) + err.Error() + "\n")
			continue
		}
		b.WriteString(fig.Render(width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) reportsContent() string {
	name := m.SelectedSystem()
	if name == "" || m.ds == nil {
		return "Nothing to report."
	}
	reports, err := m.registry.Reports(name)
	if err != nil {
		return m.theme.Error.Render("error: ") + err.Error()
	}
	if len(reports) == 0 {
		return "No reports registered for this system."
	}

	var b strings.Builder
	for i, info := range reports {
		if i > 0 {
			b.WriteString("\n\n")
		}
		rendered, err := m.reportCache.Get(
			context.Background(),
			m.reportCacheKey(name, info.Name),
			reportInput{fn: info.Fn, ds: m.ds, renderer: m.mdRenderer},
			reportCacheTTL,
		)
		if err != nil {
			b.WriteString(m.theme.Error.Render(fmt.Sprintf("report %s failed: ", info.Name)) + err.Error() + "\n")
			continue
		}
		b.WriteString(rendered)
	}
	return b.String()
}
