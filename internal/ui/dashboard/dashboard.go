// Package dashboard contains the interactive diagnostics TUI.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/diagdash/internal/cachemanager"
	"github.com/zjrosen/diagdash/internal/config"
	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/keys"
	"github.com/zjrosen/diagdash/internal/log"
	"github.com/zjrosen/diagdash/internal/runner"
	"github.com/zjrosen/diagdash/internal/ui/markdown"
	"github.com/zjrosen/diagdash/internal/ui/styles"
	"github.com/zjrosen/diagdash/internal/watcher"
)

// Tab identifies the active content tab.
type Tab int

const (
	TabResults Tab = iota
	TabPlots
	TabReports
)

// tabTitles indexes display names by Tab.
var tabTitles = []string{"Results", "Plots", "Reports"}

const reportCacheTTL = 10 * time.Minute

// reportInput carries everything a cached report render needs.
type reportInput struct {
	fn       diag.ReportFunc
	ds       *dataset.Dataset
	renderer *markdown.Renderer
}

// renderReport generates a report and styles it with glamour.
func renderReport(ctx context.Context, input reportInput) (string, error) {
	md, err := input.fn(input.ds)
	if err != nil {
		return "", err
	}
	if input.renderer == nil {
		return md, nil
	}
	return input.renderer.Render(md)
}

// Model holds the dashboard state.
type Model struct {
	registry *diag.Registry
	runner   *runner.Runner
	cfg      config.Config
	theme    styles.Theme
	keys     keys.KeyMap

	ds       *dataset.Dataset
	dataPath string

	systems  []diag.SystemInfo
	selected int
	tab      Tab

	summaries map[string]diag.Summary
	running   bool
	lastErr   error

	viewport    viewport.Model
	ready       bool
	width       int
	height      int
	showDetails bool
	showHelp    bool

	mdRenderer  *markdown.Renderer
	reportCache *cachemanager.ReadThroughCache[string, string, reportInput]

	fileWatcher *watcher.Watcher
	onChange    <-chan struct{}
}

// New creates the dashboard model.
func New(reg *diag.Registry, run *runner.Runner, cfg config.Config, ds *dataset.Dataset, dataPath string) Model {
	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"reports", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	m := Model{
		registry:    reg,
		runner:      run,
		cfg:         cfg,
		theme:       styles.NewTheme(cfg.Theme),
		keys:        keys.DefaultKeyMap(),
		ds:          ds,
		dataPath:    dataPath,
		systems:     reg.Systems(),
		summaries:   make(map[string]diag.Summary),
		showDetails: cfg.UI.ShowDetails,
	}
	m.reportCache = cachemanager.NewReadThroughCache[string, string, reportInput](
		cache, renderReport, false)
	return m
}

// StartWatcher begins watching the data file for changes when
// auto-refresh is enabled. Safe to skip for static data.
func (m *Model) StartWatcher() error {
	if !m.cfg.AutoRefresh || m.dataPath == "" {
		return nil
	}
	w, err := watcher.New(watcher.Config{
		DataPath:    m.dataPath,
		DebounceDur: time.Duration(m.cfg.DebounceMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	ch, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}
	m.fileWatcher = w
	m.onChange = ch
	log.Info(log.CatWatcher, "Watching data file", "path", m.dataPath)
	return nil
}

// Close releases watcher resources.
func (m *Model) Close() error {
	log.Debug(log.CatUI, "Dashboard closing")
	if m.fileWatcher != nil {
		return m.fileWatcher.Stop()
	}
	return nil
}

// SelectedSystem returns the name of the highlighted system, or "" when
// the registry is empty.
func (m Model) SelectedSystem() string {
	if len(m.systems) == 0 {
		return ""
	}
	return m.systems[m.selected].Name
}

// Init runs diagnostics for the first system and begins listening for
// data file changes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if name := m.SelectedSystem(); name != "" && m.ds != nil {
		cmds = append(cmds, m.runCmd(name))
	}
	if m.onChange != nil {
		cmds = append(cmds, waitForChange(m.onChange))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshContent()
		return m, nil

	case runFinishedMsg:
		m.running = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.summaries[msg.system] = msg.summary
		}
		m.refreshContent()
		return m, nil

	case dataLoadedMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.ds = msg.ds
			// Summaries describe the old dataset, drop them. Stale report
			// renders keyed by the old fingerprint age out of the cache on
			// their own.
			m.summaries = make(map[string]diag.Summary)
			if name := m.SelectedSystem(); name != "" {
				m.running = true
				m.refreshContent()
				return m, tea.Batch(m.runCmd(name), m.listenCmd())
			}
		}
		m.refreshContent()
		return m, m.listenCmd()

	case fileChangedMsg:
		log.Debug(log.CatWatcher, "Data file changed, reloading", "path", m.dataPath)
		return m, loadDataCmd(m.dataPath)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.refreshContent()
			if name := m.SelectedSystem(); name != "" && m.needsRun(name) {
				cmd := m.runSelected()
				return m, cmd
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.systems)-1 {
			m.selected++
			m.refreshContent()
			if name := m.SelectedSystem(); name != "" && m.needsRun(name) {
				cmd := m.runSelected()
				return m, cmd
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Run):
		cmd := m.runSelected()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		if m.dataPath != "" {
			return m, loadDataCmd(m.dataPath)
		}
		cmd := m.runSelected()
		return m, cmd

	case key.Matches(msg, m.keys.ToggleDetails):
		m.showDetails = !m.showDetails
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.refreshContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// needsRun reports whether no summary exists yet for the system.
func (m Model) needsRun(name string) bool {
	_, ok := m.summaries[name]
	return !ok && m.ds != nil
}

func (m *Model) runSelected() tea.Cmd {
	name := m.SelectedSystem()
	if name == "" || m.ds == nil || m.running {
		return nil
	}
	m.running = true
	m.refreshContent()
	return m.runCmd(name)
}

// listenCmd resumes waiting on the watcher channel if one is attached.
func (m Model) listenCmd() tea.Cmd {
	if m.onChange == nil {
		return nil
	}
	return waitForChange(m.onChange)
}

// layout recomputes pane sizes after a resize.
func (m *Model) layout() {
	contentWidth := m.width - sidebarWidth - 6
	if contentWidth < 20 {
		contentWidth = 20
	}
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}

	// Word wrap width changed, rendered reports are no longer valid.
	renderer, err := markdown.New(contentWidth, m.cfg.UI)
	if err == nil {
		m.mdRenderer = renderer
	}
}

// reportCacheKey scopes cached renders to system, item, data identity
// and render width.
func (m Model) reportCacheKey(system, report string) string {
	fingerprint := ""
	if m.ds != nil {
		fingerprint = m.ds.Fingerprint()
	}
	return fmt.Sprintf("%s:%s:%s:%d", system, report, fingerprint, m.viewport.Width)
}
