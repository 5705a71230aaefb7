package mlflow

// Run statuses reported by the tracking server.
const (
	RunStatusRunning  = "RUNNING"
	RunStatusFinished = "FINISHED"
	RunStatusFailed   = "FAILED"
)

// Experiment is a tracking experiment as returned by the server.
type Experiment struct {
	ExperimentID     string `json:"experiment_id"`
	Name             string `json:"name"`
	ArtifactLocation string `json:"artifact_location"`
	LifecycleStage   string `json:"lifecycle_stage"`
}

// RunInfo carries the identifying metadata of a run.
type RunInfo struct {
	RunID        string `json:"run_id"`
	RunName      string `json:"run_name"`
	ExperimentID string `json:"experiment_id"`
	Status       string `json:"status"`
	StartTime    int64  `json:"start_time"`
	EndTime      int64  `json:"end_time,omitempty"`
	ArtifactURI  string `json:"artifact_uri"`
}

// RunData carries logged params and metrics.
type RunData struct {
	Params  []Param  `json:"params,omitempty"`
	Metrics []Metric `json:"metrics,omitempty"`
	Tags    []RunTag `json:"tags,omitempty"`
}

// Run is a tracking run.
type Run struct {
	Info RunInfo `json:"info"`
	Data RunData `json:"data"`
}

// Param is a logged parameter.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metric is a logged metric point.
type Metric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

// RunTag is a tag on a run.
type RunTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileInfo describes one entry under a run's artifact root.
type FileInfo struct {
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	FileSize int64  `json:"file_size,omitempty"`
}

// RegisteredModel is a registry entry, workspace or Unity Catalog.
type RegisteredModel struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ModelVersion is one version of a registered model.
type ModelVersion struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	Source      string `json:"source"`
	RunID       string `json:"run_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// TraceInfo is the server-side metadata of a trace.
type TraceInfo struct {
	TraceID         string            `json:"trace_id"`
	ExperimentID    string            `json:"experiment_id,omitempty"`
	RequestTime     int64             `json:"request_time,omitempty"`
	ExecutionTimeMS int64             `json:"execution_duration_ms,omitempty"`
	State           string            `json:"state,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
	TraceMetadata   map[string]string `json:"trace_metadata,omitempty"`
	ClientRequestID string            `json:"client_request_id,omitempty"`
}

// TraceSpan is one span inside an exported trace.
type TraceSpan struct {
	SpanID       string            `json:"span_id"`
	TraceID      string            `json:"trace_id"`
	ParentSpanID string            `json:"parent_span_id,omitempty"`
	Name         string            `json:"name"`
	SpanType     string            `json:"span_type"`
	StartTimeNS  int64             `json:"start_time_unix_nano"`
	EndTimeNS    int64             `json:"end_time_unix_nano"`
	Status       string            `json:"status"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// TraceData is the span payload of a trace.
type TraceData struct {
	Spans []TraceSpan `json:"spans"`
}

// Trace couples trace metadata with its spans.
type Trace struct {
	Info TraceInfo `json:"info"`
	Data TraceData `json:"data"`
}
