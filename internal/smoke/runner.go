package smoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"dbsmoke/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

var (
	glyphPass = color.New(color.FgGreen).Sprint("✓")
	glyphFail = color.New(color.FgRed).Sprint("✗")
	glyphSkip = color.New(color.FgYellow).Sprint("○")
	glyphWarn = color.New(color.FgYellow).Sprint("⚠")
)

// Options configure a Runner.
type Options struct {
	// Out receives live progress output. Defaults to os.Stdout.
	Out io.Writer
	// Quiet suppresses per-step progress and the spinner.
	Quiet bool
	// Spinner animates long remote waits. Ignored when Quiet.
	Spinner bool
}

// Runner executes checks step by step, printing progress and recording
// results.
type Runner struct {
	out     io.Writer
	quiet   bool
	spinner bool
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Runner{out: out, quiet: opts.Quiet, spinner: opts.Spinner && !opts.Quiet}
}

// RunCheck executes one check. Steps run in order; a SkipError records the
// step as skipped and continues, any other error stops the check.
func (r *Runner) RunCheck(ctx context.Context, check Check) CheckResult {
	return r.runCheck(ctx, check, r.out)
}

func (r *Runner) runCheck(ctx context.Context, check Check, out io.Writer) CheckResult {
	result := CheckResult{
		Name:        check.Name,
		Description: check.Description,
		Status:      StatusPassed,
	}
	started := time.Now()

	if !r.quiet {
		fmt.Fprintf(out, "\n=== %s: %s\n", check.Name, check.Description)
	}
	logging.Info("Smoke", "running check %q (%d steps)", check.Name, len(check.Steps))

	sc := NewStepContext()
	for _, step := range check.Steps {
		stepResult := r.runStep(ctx, step, sc, out)
		result.Steps = append(result.Steps, stepResult)

		switch stepResult.Status {
		case StatusSkipped, StatusPassed:
			continue
		default:
			result.Status = StatusFailed
			if stepResult.Error != "" {
				result.Diagnostics = append(result.Diagnostics,
					fmt.Sprintf("%s: %s", step.Name, stepResult.Error))
			}
		}
		break
	}

	if check.Cleanup != nil {
		check.Cleanup(ctx, sc)
	}

	// An all-skipped check is itself skipped, not passed.
	if result.Status == StatusPassed {
		allSkipped := len(result.Steps) > 0
		for _, s := range result.Steps {
			if s.Status != StatusSkipped {
				allSkipped = false
				break
			}
		}
		if allSkipped {
			result.Status = StatusSkipped
		}
	}

	result.Duration = time.Since(started)
	if !r.quiet {
		r.printCheckFooter(out, result)
	}
	return result
}

func (r *Runner) runStep(ctx context.Context, step Step, sc *StepContext, out io.Writer) StepResult {
	started := time.Now()

	var spin *spinner.Spinner
	if r.spinner {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
		spin.Suffix = " " + step.Name
		spin.Start()
	}

	err := step.Run(ctx, sc)

	if spin != nil {
		spin.Stop()
	}

	details, warnings := sc.drain()
	result := StepResult{
		Name:     step.Name,
		Status:   StatusPassed,
		Duration: time.Since(started),
		Details:  details,
		Warnings: warnings,
	}

	var skip *SkipError
	switch {
	case err == nil:
	case errors.As(err, &skip):
		result.Status = StatusSkipped
		result.Details = append(result.Details, skip.Reason)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The step did not get to run to completion; that is not a verdict
		// on the remote service.
		result.Status = StatusError
		result.Error = err.Error()
		logging.Error("Smoke", err, "step %q aborted", step.Name)
	default:
		result.Status = StatusFailed
		result.Error = err.Error()
		logging.Error("Smoke", err, "step %q failed", step.Name)
	}

	if !r.quiet {
		r.printStep(out, result)
	}
	return result
}

func (r *Runner) printStep(out io.Writer, result StepResult) {
	glyph := glyphPass
	switch result.Status {
	case StatusFailed, StatusError:
		glyph = glyphFail
	case StatusSkipped:
		glyph = glyphSkip
	}
	fmt.Fprintf(out, "  %s %s (%s)\n", glyph, result.Name, result.Duration.Round(time.Millisecond))
	for _, d := range result.Details {
		fmt.Fprintf(out, "    - %s\n", d)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "    %s %s\n", glyphWarn, w)
	}
	if result.Error != "" {
		fmt.Fprintf(out, "    %s\n", color.New(color.FgRed).Sprint(result.Error))
	}
}

func (r *Runner) printCheckFooter(out io.Writer, result CheckResult) {
	switch result.Status {
	case StatusPassed:
		fmt.Fprintf(out, "%s %s passed (%s)\n", glyphPass, result.Name, result.Duration.Round(time.Millisecond))
	case StatusSkipped:
		fmt.Fprintf(out, "%s %s skipped\n", glyphSkip, result.Name)
	default:
		fmt.Fprintf(out, "%s %s FAILED (%s)\n", glyphFail, result.Name, result.Duration.Round(time.Millisecond))
	}
}

// RunSuite executes checks sequentially, or concurrently when parallel is
// set. Parallel checks write into per-check buffers so their step output
// never interleaves.
func (r *Runner) RunSuite(ctx context.Context, checks []Check, parallel bool) *Report {
	report := &Report{Started: time.Now()}

	if !parallel {
		for _, check := range checks {
			report.Results = append(report.Results, r.runCheck(ctx, check, r.out))
		}
	} else {
		results := make([]CheckResult, len(checks))
		buffers := make([]bytes.Buffer, len(checks))

		// Spinner escape sequences would corrupt the per-check buffers.
		buffered := &Runner{out: r.out, quiet: r.quiet, spinner: false}

		g, gctx := errgroup.WithContext(ctx)
		for i, check := range checks {
			g.Go(func() error {
				results[i] = buffered.runCheck(gctx, check, &buffers[i])
				return nil
			})
		}
		// Workers only record results; no error to propagate.
		_ = g.Wait()

		for i := range checks {
			io.Copy(r.out, &buffers[i]) //nolint:errcheck
			report.Results = append(report.Results, results[i])
		}
	}

	report.Duration = time.Since(report.Started)
	report.tally()
	return report
}
