// Package tracing owns the span model and export queue the trace checks
// exercise: spans nest through context.Context, Traced wraps a function in
// a span, and the Exporter ships finished traces from a background worker
// with a bounded Flush.
package tracing
