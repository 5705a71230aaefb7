package tracing

import (
	"context"
	"sync"
	"time"

	"dbsmoke/internal/mlflow"
)

type ctxKey struct{}

// spanFromContext returns the innermost span started through StartSpan.
func spanFromContext(ctx context.Context) *Span {
	s, _ := ctx.Value(ctxKey{}).(*Span)
	return s
}

// Trace accumulates spans for one logical operation against an experiment.
// Spans nest through the context, and Build assembles the export payload
// once the work is done.
type Trace struct {
	mu    sync.Mutex
	id    string
	spans []*Span

	experimentID string
	runID        string
	tags         map[string]string
}

// TraceOption configures a new Trace.
type TraceOption func(*Trace)

// WithRunID associates exported spans with a tracking run.
func WithRunID(runID string) TraceOption {
	return func(t *Trace) {
		t.runID = runID
	}
}

// WithTag sets a trace-level tag.
func WithTag(key, value string) TraceOption {
	return func(t *Trace) {
		t.tags[key] = value
	}
}

// NewTrace starts an empty trace bound to an experiment.
func NewTrace(experimentID string, opts ...TraceOption) *Trace {
	t := &Trace{
		id:           newTraceID(),
		experimentID: experimentID,
		tags:         map[string]string{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the trace id.
func (t *Trace) ID() string { return t.id }

// StartSpan opens a span nested under whatever span the context carries.
// The returned context carries the new span for further nesting.
func (t *Trace) StartSpan(ctx context.Context, name string, spanType SpanType) (context.Context, *Span) {
	span := &Span{
		id:       newSpanID(),
		traceID:  t.id,
		name:     name,
		spanType: spanType,
		start:    time.Now(),
		status:   StatusOK,
		attrs:    map[string]string{},
	}
	if parent := spanFromContext(ctx); parent != nil {
		span.parentID = parent.id
	}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return context.WithValue(ctx, ctxKey{}, span), span
}

// Traced runs fn inside a span, ending it when fn returns and marking it
// ERROR on failure.
func (t *Trace) Traced(ctx context.Context, name string, spanType SpanType, fn func(context.Context) error) error {
	ctx, span := t.StartSpan(ctx, name, spanType)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.SetError()
		return err
	}
	return nil
}

// Build assembles the export payload. Open spans are ended first; the trace
// state is ERROR when any span failed.
func (t *Trace) Build() *mlflow.Trace {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := mlflow.TraceStateOK
	var (
		earliest time.Time
		latest   time.Time
	)
	spans := make([]mlflow.TraceSpan, 0, len(t.spans))
	for _, s := range t.spans {
		if !s.ended() {
			s.End()
		}
		s.mu.Lock()
		if s.status == StatusError {
			state = mlflow.TraceStateError
		}
		if earliest.IsZero() || s.start.Before(earliest) {
			earliest = s.start
		}
		if s.end.After(latest) {
			latest = s.end
		}
		attrs := make(map[string]string, len(s.attrs))
		for k, v := range s.attrs {
			attrs[k] = v
		}
		spans = append(spans, mlflow.TraceSpan{
			SpanID:       s.id,
			TraceID:      s.traceID,
			ParentSpanID: s.parentID,
			Name:         s.name,
			SpanType:     string(s.spanType),
			StartTimeNS:  s.start.UnixNano(),
			EndTimeNS:    s.end.UnixNano(),
			Status:       s.status,
			Attributes:   attrs,
		})
		s.mu.Unlock()
	}

	info := mlflow.TraceInfo{
		TraceID:      t.id,
		ExperimentID: t.experimentID,
		RequestTime:  earliest.UnixMilli(),
		State:        state,
		Tags:         map[string]string{},
	}
	if !earliest.IsZero() {
		info.ExecutionTimeMS = latest.Sub(earliest).Milliseconds()
	}
	for k, v := range t.tags {
		info.Tags[k] = v
	}
	if t.runID != "" {
		info.TraceMetadata = map[string]string{"mlflow.sourceRun": t.runID}
	}

	return &mlflow.Trace{Info: info, Data: mlflow.TraceData{Spans: spans}}
}
