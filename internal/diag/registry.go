// Package diag implements the diagnostic domain model: statuses, results,
// summaries, and the registry that maps system names to their registered
// tests, plots, and reports.
package diag

import (
	"context"
	"errors"
	"sync"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/log"
	"github.com/zjrosen/diagdash/internal/plot"
)

// Registry errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrNilFunc         = errors.New("registered function cannot be nil")
	ErrUnknownSystem   = errors.New("system not registered")
	ErrDuplicateSystem = errors.New("system already registered")
	ErrDuplicateTest   = errors.New("duplicate test name for system")
	ErrDuplicatePlot   = errors.New("duplicate plot name for system")
	ErrDuplicateReport = errors.New("duplicate report name for system")
	ErrUnknownTest     = errors.New("test not registered for system")
	ErrUnknownPlot     = errors.New("plot not registered for system")
	ErrUnknownReport   = errors.New("report not registered for system")
)

// DefaultVersion is used when a system registers without a version.
const DefaultVersion = "0.1.0"

// TestFunc inspects a dataset and returns a single Result. A non-nil error
// (or a panic) is converted by the runner into an error-status result.
type TestFunc func(ctx context.Context, ds *dataset.Dataset) (Result, error)

// PlotFunc produces a renderable figure from a dataset.
type PlotFunc func(ds *dataset.Dataset) (*plot.Figure, error)

// ReportFunc produces a markdown report from a dataset.
type ReportFunc func(ds *dataset.Dataset) (string, error)

// SystemInfo describes a registered diagnostic system.
type SystemInfo struct {
	Name        string
	Description string
	Version     string
}

// TestInfo is a registered diagnostic test.
type TestInfo struct {
	Name        string
	Description string
	Fn          TestFunc
}

// PlotInfo is a registered plot.
type PlotInfo struct {
	Name        string
	Description string
	Fn          PlotFunc
}

// ReportInfo is a registered report.
type ReportInfo struct {
	Name        string
	Description string
	Fn          ReportFunc
}

// systemEntry holds one system and its three independent item namespaces.
// Slices preserve registration order; the index maps guard uniqueness.
type systemEntry struct {
	info    SystemInfo
	tests   []TestInfo
	plots   []PlotInfo
	reports []ReportInfo

	testIndex   map[string]int
	plotIndex   map[string]int
	reportIndex map[string]int
}

// Registry maps system names to their registered tests, plots, and
// reports. Construct one explicitly with NewRegistry and pass it to the
// loader and runner; there is no package-level instance.
//
// Registration typically completes at startup before any reads, but all
// operations are mutex-guarded so concurrent use is safe regardless.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	systems map[string]*systemEntry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		systems: make(map[string]*systemEntry),
	}
}

// AddSystem registers a diagnostic system. Registering a name twice fails
// with ErrDuplicateSystem: re-registration is a wiring mistake and must
// surface immediately rather than silently overwrite.
func (r *Registry) AddSystem(name, description, version string) error {
	if name == "" {
		return ErrEmptyName
	}
	if version == "" {
		version = DefaultVersion
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.systems[name]; exists {
		return ErrDuplicateSystem
	}
	r.systems[name] = &systemEntry{
		info:        SystemInfo{Name: name, Description: description, Version: version},
		testIndex:   make(map[string]int),
		plotIndex:   make(map[string]int),
		reportIndex: make(map[string]int),
	}
	r.order = append(r.order, name)
	log.Debug(log.CatRegistry, "Registered system", "name", name, "version", version)
	return nil
}

// AddTest registers a diagnostic test for an already registered system.
// The system must exist (ErrUnknownSystem) and the test name must be
// unique within the system's test namespace (ErrDuplicateTest).
func (r *Registry) AddTest(system, name, description string, fn TestFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilFunc
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.systems[system]
	if !exists {
		return ErrUnknownSystem
	}
	if _, dup := entry.testIndex[name]; dup {
		return ErrDuplicateTest
	}
	entry.testIndex[name] = len(entry.tests)
	entry.tests = append(entry.tests, TestInfo{Name: name, Description: description, Fn: fn})
	log.Debug(log.CatRegistry, "Registered test", "system", system, "name", name)
	return nil
}

// AddPlot registers a plot for an already registered system. Plots share
// the contract of AddTest but live in their own namespace.
func (r *Registry) AddPlot(system, name, description string, fn PlotFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilFunc
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.systems[system]
	if !exists {
		return ErrUnknownSystem
	}
	if _, dup := entry.plotIndex[name]; dup {
		return ErrDuplicatePlot
	}
	entry.plotIndex[name] = len(entry.plots)
	entry.plots = append(entry.plots, PlotInfo{Name: name, Description: description, Fn: fn})
	log.Debug(log.CatRegistry, "Registered plot", "system", system, "name", name)
	return nil
}

// AddReport registers a report for an already registered system.
func (r *Registry) AddReport(system, name, description string, fn ReportFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilFunc
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.systems[system]
	if !exists {
		return ErrUnknownSystem
	}
	if _, dup := entry.reportIndex[name]; dup {
		return ErrDuplicateReport
	}
	entry.reportIndex[name] = len(entry.reports)
	entry.reports = append(entry.reports, ReportInfo{Name: name, Description: description, Fn: fn})
	log.Debug(log.CatRegistry, "Registered report", "system", system, "name", name)
	return nil
}

// System returns the info for a registered system.
func (r *Registry) System(name string) (SystemInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[name]
	if !exists {
		return SystemInfo{}, ErrUnknownSystem
	}
	return entry.info, nil
}

// Systems returns all registered systems in registration order. The order
// is stable across calls so dropdowns and listings render deterministically.
func (r *Registry) Systems() []SystemInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]SystemInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.systems[name].info)
	}
	return infos
}

// Tests returns the tests registered for a system, in registration order.
func (r *Registry) Tests(system string) ([]TestInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[system]
	if !exists {
		return nil, ErrUnknownSystem
	}
	tests := make([]TestInfo, len(entry.tests))
	copy(tests, entry.tests)
	return tests, nil
}

// Plots returns the plots registered for a system, in registration order.
func (r *Registry) Plots(system string) ([]PlotInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[system]
	if !exists {
		return nil, ErrUnknownSystem
	}
	plots := make([]PlotInfo, len(entry.plots))
	copy(plots, entry.plots)
	return plots, nil
}

// Reports returns the reports registered for a system, in registration order.
func (r *Registry) Reports(system string) ([]ReportInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[system]
	if !exists {
		return nil, ErrUnknownSystem
	}
	reports := make([]ReportInfo, len(entry.reports))
	copy(reports, entry.reports)
	return reports, nil
}

// Test looks up a single test by name.
func (r *Registry) Test(system, name string) (TestInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[system]
	if !exists {
		return TestInfo{}, ErrUnknownSystem
	}
	i, ok := entry.testIndex[name]
	if !ok {
		return TestInfo{}, ErrUnknownTest
	}
	return entry.tests[i], nil
}

// Plot looks up a single plot by name.
func (r *Registry) Plot(system, name string) (PlotInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[system]
	if !exists {
		return PlotInfo{}, ErrUnknownSystem
	}
	i, ok := entry.plotIndex[name]
	if !ok {
		return PlotInfo{}, ErrUnknownPlot
	}
	return entry.plots[i], nil
}

// Report looks up a single report by name.
func (r *Registry) Report(system, name string) (ReportInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.systems[system]
	if !exists {
		return ReportInfo{}, ErrUnknownSystem
	}
	i, ok := entry.reportIndex[name]
	if !ok {
		return ReportInfo{}, ErrUnknownReport
	}
	return entry.reports[i], nil
}
