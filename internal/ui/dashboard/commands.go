package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
)

// runFinishedMsg reports the outcome of a diagnostics run.
type runFinishedMsg struct {
	system  string
	summary diag.Summary
	err     error
}

// dataLoadedMsg carries a freshly loaded dataset.
type dataLoadedMsg struct {
	ds  *dataset.Dataset
	err error
}

// fileChangedMsg signals that the data file changed on disk.
type fileChangedMsg struct{}

// runCmd runs all tests for a system off the UI goroutine.
func (m Model) runCmd(system string) tea.Cmd {
	run := m.runner
	ds := m.ds
	return func() tea.Msg {
		summary, err := run.Run(context.Background(), system, ds)
		return runFinishedMsg{system: system, summary: summary, err: err}
	}
}

// loadDataCmd reloads the data file from disk.
func loadDataCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ds, err := dataset.LoadFile(path)
		return dataLoadedMsg{ds: ds, err: err}
	}
}

// waitForChange blocks on the watcher channel until the next change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}
