// Package runner executes the diagnostic tests registered for a system
// against a dataset and aggregates the outcomes into a summary.
//
// Failure isolation is the central guarantee: a test function that returns
// an error or panics produces a single error-status result, and every
// other registered test still runs. Plot and report functions are invoked
// directly without that isolation; their errors propagate to the caller.
package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/log"
	"github.com/zjrosen/diagdash/internal/plot"
	"github.com/zjrosen/diagdash/internal/tracing"
)

// Runner executes diagnostics against a registry. It keeps no state
// between invocations; every Run is a fresh, independent execution.
type Runner struct {
	registry *diag.Registry
	tracer   trace.Tracer
}

// New creates a runner reading from the given registry.
func New(registry *diag.Registry) *Runner {
	return &Runner{
		registry: registry,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
	}
}

// SetTracer installs a tracer for run and per-test spans.
func (r *Runner) SetTracer(tracer trace.Tracer) {
	if tracer != nil {
		r.tracer = tracer
	}
}

// Run executes every test registered for systemName, in registration
// order, against ds. An unknown system is a caller configuration error
// and fails immediately with diag.ErrUnknownSystem; it is not isolated.
// The returned summary always holds exactly one result per registered
// test.
func (r *Runner) Run(ctx context.Context, systemName string, ds *dataset.Dataset) (diag.Summary, error) {
	if _, err := r.registry.System(systemName); err != nil {
		return diag.Summary{}, err
	}
	tests, err := r.registry.Tests(systemName)
	if err != nil {
		return diag.Summary{}, err
	}

	runID := uuid.NewString()
	shape := ds.Shape()

	ctx, span := r.tracer.Start(ctx, "diagnostics.run",
		trace.WithAttributes(
			tracing.StringAttr("system", systemName),
			tracing.StringAttr("run_id", runID),
			tracing.IntAttr("tests", len(tests)),
			tracing.IntAttr("rows", shape.Rows),
		))
	defer span.End()

	start := time.Now()
	results := make([]diag.Result, 0, len(tests))
	for _, test := range tests {
		results = append(results, r.runTest(ctx, test, ds))
	}

	summary := diag.Summary{
		SystemName: systemName,
		RunID:      runID,
		Shape:      shape,
		Results:    results,
		Timestamp:  start,
		Duration:   time.Since(start),
	}
	if summary.Failed() {
		span.SetStatus(codes.Error, "diagnostics reported failures")
	}
	log.Info(log.CatRunner, "Run complete",
		"system", systemName,
		"run_id", runID,
		"tests", len(results),
		"pass", summary.PassCount(),
		"fail", summary.FailCount(),
		"warn", summary.WarningCount(),
		"error", summary.ErrorCount(),
	)
	return summary, nil
}

// runTest invokes a single test with full isolation. The registered name
// always wins over whatever the test put in its result.
func (r *Runner) runTest(ctx context.Context, test diag.TestInfo, ds *dataset.Dataset) (result diag.Result) {
	ctx, span := r.tracer.Start(ctx, "diagnostics.test",
		trace.WithAttributes(tracing.StringAttr("test", test.Name)))
	defer func() {
		span.SetAttributes(tracing.StringAttr("status", string(result.Status)))
		if result.Status == diag.StatusError {
			span.SetStatus(codes.Error, result.Message)
		}
		span.End()
	}()

	defer func() {
		if p := recover(); p != nil {
			log.Error(log.CatRunner, "Test panicked", "test", test.Name, "panic", p)
			result = diag.NewResult(test.Name, diag.StatusError,
				fmt.Sprintf("test panicked: %v", p)).
				WithDetails(map[string]any{
					"panic": fmt.Sprintf("%v", p),
					"stack": string(debug.Stack()),
				})
		}
	}()

	res, err := test.Fn(ctx, ds)
	if err != nil {
		log.Warn(log.CatRunner, "Test returned error", "test", test.Name, "error", err)
		return diag.NewResult(test.Name, diag.StatusError,
			fmt.Sprintf("test failed to execute: %v", err)).
			WithDetails(map[string]any{"error": err.Error()})
	}
	res.TestName = test.Name
	return res
}

// RenderPlot invokes a registered plot function directly. Unlike tests,
// plot errors are not converted into results; they surface to the caller.
func (r *Runner) RenderPlot(system, name string, ds *dataset.Dataset) (*plot.Figure, error) {
	info, err := r.registry.Plot(system, name)
	if err != nil {
		return nil, err
	}
	return info.Fn(ds)
}

// RenderReport invokes a registered report function directly, returning
// its markdown. Errors surface to the caller.
func (r *Runner) RenderReport(system, name string, ds *dataset.Dataset) (string, error) {
	info, err := r.registry.Report(system, name)
	if err != nil {
		return "", err
	}
	return info.Fn(ds)
}
