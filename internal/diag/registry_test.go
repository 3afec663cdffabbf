package diag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/plot"
)

func passFunc(name string) TestFunc {
	return func(ctx context.Context, ds *dataset.Dataset) (Result, error) {
		return NewResult(name, StatusPass, "ok"), nil
	}
}

func notePlot(ds *dataset.Dataset) (*plot.Figure, error) {
	return plot.NewNote("note", "nothing to see"), nil
}

func emptyReport(ds *dataset.Dataset) (string, error) {
	return "# empty", nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NotNil(t, reg)
	require.Empty(t, reg.Systems())
}

func TestRegistry_AddSystem(t *testing.T) {
	reg := NewRegistry()

	err := reg.AddSystem("sensors", "sensor diagnostics", "1.2.0")

	require.NoError(t, err)
	info, err := reg.System("sensors")
	require.NoError(t, err)
	require.Equal(t, "sensors", info.Name)
	require.Equal(t, "sensor diagnostics", info.Description)
	require.Equal(t, "1.2.0", info.Version)
}

func TestRegistry_AddSystem_DefaultVersion(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.AddSystem("sensors", "", ""))

	info, err := reg.System("sensors")
	require.NoError(t, err)
	require.Equal(t, DefaultVersion, info.Version)
}

func TestRegistry_AddSystem_EmptyName(t *testing.T) {
	reg := NewRegistry()

	err := reg.AddSystem("", "desc", "")

	require.ErrorIs(t, err, ErrEmptyName)
	require.Empty(t, reg.Systems())
}

func TestRegistry_AddSystem_Duplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "first", "1.0.0"))

	err := reg.AddSystem("sensors", "second", "2.0.0")

	require.ErrorIs(t, err, ErrDuplicateSystem)
	// Original registration is untouched
	info, lookupErr := reg.System("sensors")
	require.NoError(t, lookupErr)
	require.Equal(t, "first", info.Description)
	require.Equal(t, "1.0.0", info.Version)
}

func TestRegistry_AddTest(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))

	err := reg.AddTest("sensors", "check_not_empty", "verifies data present", passFunc("check_not_empty"))

	require.NoError(t, err)
	tests, err := reg.Tests("sensors")
	require.NoError(t, err)
	require.Len(t, tests, 1)
	require.Equal(t, "check_not_empty", tests[0].Name)
	require.Equal(t, "verifies data present", tests[0].Description)
	require.NotNil(t, tests[0].Fn)
}

func TestRegistry_AddTest_UnknownSystem(t *testing.T) {
	reg := NewRegistry()

	err := reg.AddTest("ghost", "check", "", passFunc("check"))

	require.ErrorIs(t, err, ErrUnknownSystem)
}

func TestRegistry_AddTest_NilFunc(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))

	err := reg.AddTest("sensors", "check", "", nil)

	require.ErrorIs(t, err, ErrNilFunc)
}

func TestRegistry_AddTest_Duplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))
	require.NoError(t, reg.AddTest("sensors", "check", "original", passFunc("check")))

	err := reg.AddTest("sensors", "check", "replacement", passFunc("check"))

	require.ErrorIs(t, err, ErrDuplicateTest)
	// Original test remains registered and unaffected
	tests, lookupErr := reg.Tests("sensors")
	require.NoError(t, lookupErr)
	require.Len(t, tests, 1)
	require.Equal(t, "original", tests[0].Description)
}

func TestRegistry_IndependentNamespaces(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))

	// A test, a plot, and a report may all share one name
	require.NoError(t, reg.AddTest("sensors", "overview", "", passFunc("overview")))
	require.NoError(t, reg.AddPlot("sensors", "overview", "", notePlot))
	require.NoError(t, reg.AddReport("sensors", "overview", "", emptyReport))

	// But two plots may not
	err := reg.AddPlot("sensors", "overview", "", notePlot)
	require.ErrorIs(t, err, ErrDuplicatePlot)

	err = reg.AddReport("sensors", "overview", "", emptyReport)
	require.ErrorIs(t, err, ErrDuplicateReport)
}

func TestRegistry_Systems_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()

	// Interleave system registration with item registration; only system
	// insertion order matters for listing.
	require.NoError(t, reg.AddSystem("charlie", "", ""))
	require.NoError(t, reg.AddTest("charlie", "t1", "", passFunc("t1")))
	require.NoError(t, reg.AddSystem("alpha", "", ""))
	require.NoError(t, reg.AddPlot("charlie", "p1", "", notePlot))
	require.NoError(t, reg.AddSystem("bravo", "", ""))
	require.NoError(t, reg.AddTest("alpha", "t1", "", passFunc("t1")))

	systems := reg.Systems()
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.Name
	}
	require.Equal(t, []string{"charlie", "alpha", "bravo"}, names)
}

func TestRegistry_Tests_Order(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))
	for _, name := range []string{"third", "first", "second"} {
		require.NoError(t, reg.AddTest("sensors", name, "", passFunc(name)))
	}

	tests, err := reg.Tests("sensors")
	require.NoError(t, err)
	require.Equal(t, "third", tests[0].Name)
	require.Equal(t, "first", tests[1].Name)
	require.Equal(t, "second", tests[2].Name)
}

func TestRegistry_Tests_Idempotent(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))
	require.NoError(t, reg.AddTest("sensors", "a", "", passFunc("a")))
	require.NoError(t, reg.AddTest("sensors", "b", "", passFunc("b")))

	first, err := reg.Tests("sensors")
	require.NoError(t, err)
	second, err := reg.Tests("sensors")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].Name, second[i].Name)
	}
}

func TestRegistry_Tests_UnknownSystem(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Tests("ghost")

	require.ErrorIs(t, err, ErrUnknownSystem)
}

func TestRegistry_CrossSystemIsolation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("a", "", ""))
	require.NoError(t, reg.AddSystem("b", "", ""))
	require.NoError(t, reg.AddTest("a", "only_in_a", "", passFunc("only_in_a")))
	require.NoError(t, reg.AddTest("b", "only_in_b", "", passFunc("only_in_b")))

	testsA, err := reg.Tests("a")
	require.NoError(t, err)
	testsB, err := reg.Tests("b")
	require.NoError(t, err)

	require.Len(t, testsA, 1)
	require.Equal(t, "only_in_a", testsA[0].Name)
	require.Len(t, testsB, 1)
	require.Equal(t, "only_in_b", testsB[0].Name)
}

func TestRegistry_TestLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))
	require.NoError(t, reg.AddTest("sensors", "battery", "battery check", passFunc("battery")))

	info, err := reg.Test("sensors", "battery")
	require.NoError(t, err)
	require.Equal(t, "battery", info.Name)
	require.NotNil(t, info.Fn)

	_, err = reg.Test("sensors", "ghost")
	require.ErrorIs(t, err, ErrUnknownTest)

	_, err = reg.Test("ghost", "battery")
	require.ErrorIs(t, err, ErrUnknownSystem)
}

func TestRegistry_PlotLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))
	require.NoError(t, reg.AddPlot("sensors", "battery", "battery levels", notePlot))

	info, err := reg.Plot("sensors", "battery")
	require.NoError(t, err)
	require.Equal(t, "battery", info.Name)

	_, err = reg.Plot("sensors", "ghost")
	require.ErrorIs(t, err, ErrUnknownPlot)

	_, err = reg.Plot("ghost", "battery")
	require.ErrorIs(t, err, ErrUnknownSystem)
}

func TestRegistry_ReportLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSystem("sensors", "", ""))
	require.NoError(t, reg.AddReport("sensors", "health", "health report", emptyReport))

	info, err := reg.Report("sensors", "health")
	require.NoError(t, err)
	require.Equal(t, "health", info.Name)

	_, err = reg.Report("sensors", "ghost")
	require.ErrorIs(t, err, ErrUnknownReport)
}
