package tracing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dbsmoke/internal/mlflow"
	"dbsmoke/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// ErrExporterClosed is returned by Export after Close.
var ErrExporterClosed = errors.New("trace exporter is closed")

// traceClient is the slice of the MLflow client the exporter needs.
type traceClient interface {
	CreateTrace(ctx context.Context, trace *mlflow.Trace) (*mlflow.TraceInfo, error)
}

// Exporter ships finished traces to the tracking server from a background
// worker. Flush bounds the wait for in-flight traces; the first export
// error is retained so the checks can inspect it (a 403 here is the exact
// failure the trace checks exist to surface).
type Exporter struct {
	client traceClient
	queue  chan *mlflow.Trace
	group  *errgroup.Group

	pending atomic.Int64

	mu       sync.Mutex
	closed   bool
	exported int
	firstErr error
}

// NewExporter starts the export worker.
func NewExporter(client traceClient, buffer int) *Exporter {
	if buffer <= 0 {
		buffer = 16
	}
	e := &Exporter{
		client: client,
		queue:  make(chan *mlflow.Trace, buffer),
		group:  &errgroup.Group{},
	}
	e.group.Go(e.run)
	return e
}

func (e *Exporter) run() error {
	for trace := range e.queue {
		// Per-trace deadline so one stuck upload cannot wedge the queue.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := e.client.CreateTrace(ctx, trace)
		cancel()

		e.mu.Lock()
		if err != nil {
			if e.firstErr == nil {
				e.firstErr = err
			}
			logging.Error("Tracing", err, "export of trace %s failed", trace.Info.TraceID)
		} else {
			e.exported++
			logging.Debug("Tracing", "exported trace %s (%d spans)", trace.Info.TraceID, len(trace.Data.Spans))
		}
		e.mu.Unlock()
		e.pending.Add(-1)
	}
	return nil
}

// Export queues a trace for shipping. Blocks when the buffer is full.
func (e *Exporter) Export(trace *mlflow.Trace) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrExporterClosed
	}
	e.mu.Unlock()

	e.pending.Add(1)
	e.queue <- trace
	return nil
}

// Flush waits until every queued trace has been attempted, bounded by ctx.
func (e *Exporter) Flush(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		if e.pending.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("flushing trace exporter: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Close drains the queue and stops the worker.
func (e *Exporter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	close(e.queue)
	return e.group.Wait()
}

// Exported returns how many traces shipped successfully.
func (e *Exporter) Exported() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exported
}

// Err returns the first export error, if any.
func (e *Exporter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.firstErr
}
