package checks

import (
	"context"
	"fmt"
	"time"

	"dbsmoke/internal/mlflow"
	"dbsmoke/internal/smoke"
	"dbsmoke/internal/tracing"
)

const traceFlushTimeout = 30 * time.Second

// Traces builds the trace logging check: emit traces with nested spans
// against a run, then read them back through the search API.
func Traces(d *Deps) smoke.Check {
	var exporter *tracing.Exporter

	steps := []smoke.Step{
		d.ensureExperimentStep(),
		d.createRunStep("smoke-traces", map[string]string{"smoke.check": "traces"}),
		{
			Name: "log params",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				params := map[string]string{"pipeline_type": "traced_smoke"}
				if err := d.MLflow.LogBatch(ctx, sc.String(keyRunID), params, nil); err != nil {
					return fmt.Errorf("logging params: %w", err)
				}
				return nil
			},
		},
		{
			Name: "emit traced pipeline",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				exporter = tracing.NewExporter(d.MLflow, 8)

				trace := tracing.NewTrace(sc.String(keyExperimentID),
					tracing.WithRunID(sc.String(keyRunID)),
					tracing.WithTag("smoke", "true"))

				err := trace.Traced(ctx, "ml_pipeline", tracing.SpanTypeAgent, func(ctx context.Context) error {
					return trace.Traced(ctx, "process_data", tracing.SpanTypeTool, func(ctx context.Context) error {
						_, span := trace.StartSpan(ctx, "tokenize", tracing.SpanTypeTool)
						span.SetAttribute("rows", "128")
						span.End()
						return nil
					})
				})
				if err != nil {
					return fmt.Errorf("running traced pipeline: %w", err)
				}

				if err := exporter.Export(trace.Build()); err != nil {
					return fmt.Errorf("queueing pipeline trace: %w", err)
				}
				sc.Detailf("pipeline trace %s queued", trace.ID())
				return nil
			},
		},
		{
			Name: "emit manual spans",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				trace := tracing.NewTrace(sc.String(keyExperimentID),
					tracing.WithRunID(sc.String(keyRunID)),
					tracing.WithTag("smoke", "true"))

				spanCtx, root := trace.StartSpan(ctx, "manual_agent", tracing.SpanTypeAgent)
				root.SetAttribute("question", "what is the run status")
				_, tool := trace.StartSpan(spanCtx, "lookup_tool", tracing.SpanTypeTool)
				tool.SetAttribute("source", "tracking-api")
				tool.End()
				root.End()

				if err := exporter.Export(trace.Build()); err != nil {
					return fmt.Errorf("queueing manual trace: %w", err)
				}
				sc.Detailf("manual trace %s queued", trace.ID())
				return nil
			},
		},
		{
			Name: "flush exporter",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				flushCtx, cancel := context.WithTimeout(ctx, traceFlushTimeout)
				defer cancel()
				if err := exporter.Flush(flushCtx); err != nil {
					return fmt.Errorf("flushing traces: %w", err)
				}
				if err := exporter.Close(); err != nil {
					return fmt.Errorf("closing exporter: %w", err)
				}
				if err := exporter.Err(); err != nil {
					if mlflow.IsPermissionDenied(err) {
						return fmt.Errorf("trace export denied; the token lacks trace write access: %w", err)
					}
					return fmt.Errorf("exporting traces: %w", err)
				}
				sc.Detailf("%d traces exported", exporter.Exported())
				return nil
			},
		},
		d.endRunStep(),
		{
			Name: "verify run recorded",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				run, err := d.MLflow.GetRun(ctx, sc.String(keyRunID))
				if err != nil {
					return fmt.Errorf("reading back run: %w", err)
				}
				if run.Info.Status != mlflow.RunStatusFinished {
					return fmt.Errorf("run status is %s, want %s", run.Info.Status, mlflow.RunStatusFinished)
				}
				return nil
			},
		},
		{
			Name: "list run artifacts",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				files, err := d.MLflow.ListArtifacts(ctx, sc.String(keyRunID), "")
				if err != nil {
					return fmt.Errorf("listing artifacts: %w", err)
				}
				sc.Detailf("%d artifact entries", len(files))
				return nil
			},
		},
		{
			Name: "search traces",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				traces, err := d.MLflow.SearchTraces(ctx, []string{sc.String(keyExperimentID)}, "", 10)
				if err != nil {
					return fmt.Errorf("searching traces: %w", err)
				}
				if len(traces) == 0 {
					// Indexing can lag the export; an empty result is not
					// proof the write failed.
					sc.Warnf("no traces visible yet in experiment %s", sc.String(keyExperimentID))
					return nil
				}
				sc.Detailf("%d traces visible, newest %s", len(traces), traces[0].TraceID)
				return nil
			},
		},
	}

	return smoke.Check{
		Name:        "traces",
		Description: "trace logging and retrieval",
		Steps:       steps,
		Cleanup: func(ctx context.Context, sc *smoke.StepContext) {
			if exporter != nil {
				exporter.Close() //nolint:errcheck
			}
			d.failOpenRun(ctx, sc)
		},
	}
}
