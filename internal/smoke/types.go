package smoke

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status is the outcome of a check or step.
type Status string

const (
	// StatusPassed indicates the step or check succeeded.
	StatusPassed Status = "PASSED"
	// StatusFailed indicates a remote call or assertion failed.
	StatusFailed Status = "FAILED"
	// StatusSkipped indicates the step did not apply to the configuration.
	StatusSkipped Status = "SKIPPED"
	// StatusError indicates the step was cut short (cancellation, deadline)
	// rather than rejected by the remote service.
	StatusError Status = "ERROR"
)

// Check is a named sequence of steps run against the remote workspace.
type Check struct {
	// Name is the short identifier used on the command line and in reports.
	Name string
	// Description is the one-line summary shown in check headers.
	Description string
	// Steps run in order; the first hard failure stops the check.
	Steps []Step
	// Cleanup always runs after the steps, even when one failed. Used to
	// close runs left open by an aborted check.
	Cleanup func(ctx context.Context, sc *StepContext)
}

// Step is one operation within a check.
type Step struct {
	Name string
	Run  func(ctx context.Context, sc *StepContext) error
}

// SkipError signals that a step does not apply; the runner records the step
// as SKIPPED instead of failed.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

// Skipf builds a SkipError.
func Skipf(format string, args ...interface{}) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// StepContext carries values between the steps of one check and collects
// detail lines for the report.
type StepContext struct {
	mu       sync.Mutex
	values   map[string]interface{}
	details  []string
	warnings []string
}

// NewStepContext creates an empty step context. Exposed for tests; the
// runner creates one per check.
func NewStepContext() *StepContext {
	return &StepContext{values: map[string]interface{}{}}
}

// Set stores a value for later steps (run ids, experiment ids, ...).
func (sc *StepContext) Set(key string, value interface{}) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.values[key] = value
}

// Value returns a stored value, or nil.
func (sc *StepContext) Value(key string) interface{} {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.values[key]
}

// String returns a stored string value, or "".
func (sc *StepContext) String(key string) string {
	s, _ := sc.Value(key).(string)
	return s
}

// Detailf records an informational line attached to the current step.
func (sc *StepContext) Detailf(format string, args ...interface{}) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.details = append(sc.details, fmt.Sprintf(format, args...))
}

// Warnf records a non-fatal problem (tag update failed, no traces visible
// yet). Warnings surface in the report without failing the check.
func (sc *StepContext) Warnf(format string, args ...interface{}) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.warnings = append(sc.warnings, fmt.Sprintf(format, args...))
}

// drain returns and clears the accumulated detail and warning lines.
func (sc *StepContext) drain() (details, warnings []string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	details, warnings = sc.details, sc.warnings
	sc.details, sc.warnings = nil, nil
	return details, warnings
}

// StepResult is the recorded outcome of one step.
type StepResult struct {
	Name     string        `json:"name" yaml:"name"`
	Status   Status        `json:"status" yaml:"status"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Details  []string      `json:"details,omitempty" yaml:"details,omitempty"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// CheckResult is the recorded outcome of one check.
type CheckResult struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status        `json:"status" yaml:"status"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Steps       []StepResult  `json:"steps" yaml:"steps"`
	Diagnostics []string      `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Report aggregates the results of a suite run.
type Report struct {
	Results  []CheckResult `json:"results" yaml:"results"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
}

// OK reports whether no check failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

func (r *Report) tally() {
	r.Passed, r.Failed, r.Skipped = 0, 0, 0
	for _, res := range r.Results {
		switch res.Status {
		case StatusPassed:
			r.Passed++
		case StatusSkipped:
			r.Skipped++
		default:
			r.Failed++
		}
	}
}
