package tracing

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SpanType categorizes a span the way MLflow's tracing UI expects.
type SpanType string

const (
	SpanTypeAgent   SpanType = "AGENT"
	SpanTypeTool    SpanType = "TOOL"
	SpanTypeChain   SpanType = "CHAIN"
	SpanTypeUnknown SpanType = "UNKNOWN"
)

// Span statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Span is one timed operation inside a trace. Spans are created through
// Trace.StartSpan and closed with End; attributes may be set until then.
type Span struct {
	mu sync.Mutex

	id       string
	traceID  string
	parentID string
	name     string
	spanType SpanType

	start  time.Time
	end    time.Time
	status string
	attrs  map[string]string
}

// ID returns the span id.
func (s *Span) ID() string { return s.id }

// Name returns the span name.
func (s *Span) Name() string { return s.name }

// SetAttribute records a key/value attribute on the span.
func (s *Span) SetAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[key] = value
}

// SetError marks the span's status as ERROR.
func (s *Span) SetError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusError
}

// End closes the span. Ending twice is harmless; the first end time wins.
func (s *Span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.end.IsZero() {
		s.end = time.Now()
	}
}

func (s *Span) ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.end.IsZero()
}

// newSpanID produces the 16-hex-char span id format the trace backend uses.
func newSpanID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// newTraceID produces a trace id in the client-generated "tr-" form.
func newTraceID() string {
	return "tr-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
