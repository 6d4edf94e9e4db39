package wire

import "time"

// ObserveServiceName is the fully qualified name of the trace ingestion and
// query service.
const ObserveServiceName = "observe.v1.ObserveService"

func init() {
	register(Service{
		Name:    ObserveServiceName,
		Methods: []string{"IngestSpans", "GetTrace", "QueryTraces"},
	})
}

// SpanKind mirrors observe.v1.SpanKind.
type SpanKind int32

const (
	SpanKindUnspecified SpanKind = 0
	SpanKindInternal    SpanKind = 1
	SpanKindServer      SpanKind = 2
	SpanKindClient      SpanKind = 3
	SpanKindProducer    SpanKind = 4
	SpanKindConsumer    SpanKind = 5
)

// SpanStatus mirrors observe.v1.SpanStatus.
type SpanStatus int32

const (
	SpanStatusUnset SpanStatus = 0
	SpanStatusOK    SpanStatus = 1
	SpanStatusError SpanStatus = 2
)

// Span is a single operation within a trace.
type Span struct {
	TraceID       string            `json:"trace_id,omitempty"`
	SpanID        string            `json:"span_id,omitempty"`
	ParentSpanID  string            `json:"parent_span_id,omitempty"`
	Name          string            `json:"name,omitempty"`
	Kind          SpanKind          `json:"kind,omitempty"`
	StartTime     *time.Time        `json:"start_time,omitempty"`
	EndTime       *time.Time        `json:"end_time,omitempty"`
	Status        SpanStatus        `json:"status,omitempty"`
	StatusMessage string            `json:"status_message,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ServiceName   string            `json:"service_name,omitempty"`
}

// Trace is a collection of spans sharing a trace ID.
type Trace struct {
	TraceID     string     `json:"trace_id,omitempty"`
	Spans       []*Span    `json:"spans,omitempty"`
	ServiceName string     `json:"service_name,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

type IngestSpansRequest struct {
	Spans []*Span `json:"spans,omitempty"`
}

type IngestSpansResponse struct {
	AcceptedCount int32 `json:"accepted_count,omitempty"`
}

type GetTraceRequest struct {
	TraceID string `json:"trace_id,omitempty"`
}

type GetTraceResponse struct {
	Trace *Trace `json:"trace,omitempty"`
}

type QueryTracesRequest struct {
	ServiceName string     `json:"service_name,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Limit       int32      `json:"limit,omitempty"`
}

type QueryTracesResponse struct {
	Traces []*Trace `json:"traces,omitempty"`
}
