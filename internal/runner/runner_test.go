package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/plot"
)

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"sensor_id", "temperature"},
		[][]any{
			{"s-1", 21.5},
			{"s-2", 23.0},
		},
	)
	require.NoError(t, err)
	return ds
}

func passTest(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	return diag.NewResult("t_pass", diag.StatusPass, "looks fine"), nil
}

func failTest(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	return diag.NewResult("t_fail", diag.StatusFail, "found problems"), nil
}

func crashTest(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	panic("boom")
}

func errTest(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	return diag.Result{}, errors.New("could not parse column")
}

func TestRunner_Run_MixedOutcomes(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddTest("s1", "t_pass", "", passTest))
	require.NoError(t, reg.AddTest("s1", "t_fail", "", failTest))
	require.NoError(t, reg.AddTest("s1", "t_crash", "", crashTest))

	summary, err := New(reg).Run(context.Background(), "s1", testDataset(t))

	require.NoError(t, err)
	require.Len(t, summary.Results, 3)
	require.Equal(t, diag.StatusPass, summary.Results[0].Status)
	require.Equal(t, diag.StatusFail, summary.Results[1].Status)
	require.Equal(t, diag.StatusError, summary.Results[2].Status)
	require.Contains(t, summary.Results[2].Message, "boom")
	require.Equal(t, "t_crash", summary.Results[2].TestName)
}

func TestRunner_Run_OneResultPerRegisteredTest(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("test_%d", i)
		fn := passTest
		if i%3 == 0 {
			fn = crashTest
		}
		require.NoError(t, reg.AddTest("s1", name, "", fn))
	}

	summary, err := New(reg).Run(context.Background(), "s1", testDataset(t))

	require.NoError(t, err)
	tests, _ := reg.Tests("s1")
	require.Len(t, summary.Results, len(tests))
	for i, res := range summary.Results {
		require.Equal(t, tests[i].Name, res.TestName)
	}
}

func TestRunner_Run_CrashDoesNotAbortOthers(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddTest("s1", "crash_first", "", crashTest))
	require.NoError(t, reg.AddTest("s1", "still_runs", "", passTest))

	summary, err := New(reg).Run(context.Background(), "s1", testDataset(t))

	require.NoError(t, err)
	require.Len(t, summary.Results, 2)
	require.Equal(t, diag.StatusError, summary.Results[0].Status)
	require.Equal(t, diag.StatusPass, summary.Results[1].Status)
}

func TestRunner_Run_ErrorReturnBecomesErrorResult(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddTest("s1", "t_err", "", errTest))

	summary, err := New(reg).Run(context.Background(), "s1", testDataset(t))

	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	require.Equal(t, diag.StatusError, res.Status)
	require.Contains(t, res.Message, "could not parse column")
	require.Equal(t, "could not parse column", res.Details["error"])
}

func TestRunner_Run_RegisteredNameWins(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	spoofed := func(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
		return diag.NewResult("someone_else", diag.StatusPass, "trust me"), nil
	}
	require.NoError(t, reg.AddTest("s1", "honest_name", "", spoofed))

	summary, err := New(reg).Run(context.Background(), "s1", testDataset(t))

	require.NoError(t, err)
	require.Equal(t, "honest_name", summary.Results[0].TestName)
}

func TestRunner_Run_UnknownSystem(t *testing.T) {
	reg := diag.NewRegistry()

	_, err := New(reg).Run(context.Background(), "ghost", testDataset(t))

	require.ErrorIs(t, err, diag.ErrUnknownSystem)
}

func TestRunner_Run_NoTests(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("empty", "", ""))

	summary, err := New(reg).Run(context.Background(), "empty", testDataset(t))

	require.NoError(t, err)
	require.Empty(t, summary.Results)
	require.False(t, summary.Failed())
}

func TestRunner_Run_SummaryMetadata(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddTest("s1", "t_pass", "", passTest))

	summary, err := New(reg).Run(context.Background(), "s1", testDataset(t))

	require.NoError(t, err)
	require.Equal(t, "s1", summary.SystemName)
	require.NotEmpty(t, summary.RunID)
	require.Equal(t, dataset.Shape{Rows: 2, Cols: 2}, summary.Shape)
	require.False(t, summary.Timestamp.IsZero())
}

func TestRunner_RenderPlot(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddPlot("s1", "overview", "", func(ds *dataset.Dataset) (*plot.Figure, error) {
		return plot.NewNote("overview", "hello"), nil
	}))

	fig, err := New(reg).RenderPlot("s1", "overview", testDataset(t))

	require.NoError(t, err)
	require.Equal(t, "overview", fig.Title())

	_, err = New(reg).RenderPlot("s1", "missing", testDataset(t))
	require.ErrorIs(t, err, diag.ErrUnknownPlot)
}

func TestRunner_RenderPlot_ErrorPropagates(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddPlot("s1", "broken", "", func(ds *dataset.Dataset) (*plot.Figure, error) {
		return nil, errors.New("render exploded")
	}))

	// Plot failures are NOT isolated the way test failures are
	_, err := New(reg).RenderPlot("s1", "broken", testDataset(t))
	require.EqualError(t, err, "render exploded")
}

func TestRunner_RenderReport(t *testing.T) {
	reg := diag.NewRegistry()
	require.NoError(t, reg.AddSystem("s1", "", ""))
	require.NoError(t, reg.AddReport("s1", "health", "", func(ds *dataset.Dataset) (string, error) {
		return "# Health\nAll nominal.", nil
	}))

	md, err := New(reg).RenderReport("s1", "health", testDataset(t))

	require.NoError(t, err)
	require.Contains(t, md, "# Health")

	_, err = New(reg).RenderReport("s1", "missing", testDataset(t))
	require.ErrorIs(t, err, diag.ErrUnknownReport)
}
