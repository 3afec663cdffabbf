package diag

import (
	"time"

	"github.com/zjrosen/diagdash/internal/dataset"
)

// Result is the outcome of one diagnostic test execution. It is a value
// object: created once per execution and never mutated.
type Result struct {
	TestName  string         `json:"test_name"`
	Status    Status         `json:"status"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewResult creates a result stamped with the current time.
func NewResult(testName string, status Status, message string) Result {
	return Result{
		TestName:  testName,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithDetails returns a copy of the result carrying structured extra data.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Summary aggregates the results of running all tests registered for one
// system against one dataset. Results preserve registration order.
type Summary struct {
	SystemName string        `json:"system_name"`
	RunID      string        `json:"run_id"`
	Shape      dataset.Shape `json:"shape"`
	Results    []Result      `json:"results"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
}

// PassCount returns the number of passing results.
func (s Summary) PassCount() int { return s.countOf(StatusPass) }

// FailCount returns the number of failing results.
func (s Summary) FailCount() int { return s.countOf(StatusFail) }

// WarningCount returns the number of warning results.
func (s Summary) WarningCount() int { return s.countOf(StatusWarning) }

// ErrorCount returns the number of runner-synthesized error results.
func (s Summary) ErrorCount() int { return s.countOf(StatusError) }

// Counts returns the per-status tally of results.
func (s Summary) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range s.Results {
		counts[r.Status]++
	}
	return counts
}

// Failed reports whether any test failed or errored.
func (s Summary) Failed() bool {
	return s.FailCount() > 0 || s.ErrorCount() > 0
}

func (s Summary) countOf(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}
