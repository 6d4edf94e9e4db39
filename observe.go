package delos

import (
	"context"
	"time"

	"github.com/instantcocoa/delos-go/internal/wire"
)

// ============================================================================
// Span and Trace Types
// ============================================================================

// SpanKind classifies a span's role within its trace.
type SpanKind string

const (
	SpanKindUnspecified SpanKind = "unspecified"
	SpanKindInternal    SpanKind = "internal"
	SpanKindServer      SpanKind = "server"
	SpanKindClient      SpanKind = "client"
	SpanKindProducer    SpanKind = "producer"
	SpanKindConsumer    SpanKind = "consumer"
)

// String returns the string representation of the span kind.
func (k SpanKind) String() string { return string(k) }

// SpanStatus represents the outcome recorded on a span.
type SpanStatus string

const (
	SpanStatusUnset SpanStatus = "unset"
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)

// String returns the string representation of the span status.
func (s SpanStatus) String() string { return string(s) }

// Span is a single timed operation within a trace.
type Span struct {
	TraceID       string
	SpanID        string
	ParentSpanID  string // empty for a root span
	Name          string
	Kind          SpanKind
	StartTime     time.Time
	EndTime       *time.Time // nil while the span is open
	Status        SpanStatus
	StatusMessage string
	Attributes    map[string]string
	ServiceName   string
}

// DurationMS returns the span duration in milliseconds, or nil when the
// span has no end time.
func (s *Span) DurationMS() *float64 {
	if s.EndTime == nil {
		return nil
	}
	ms := s.EndTime.Sub(s.StartTime).Seconds() * 1000
	return &ms
}

// Trace is a collection of spans sharing a trace ID.
type Trace struct {
	TraceID     string
	Spans       []Span
	ServiceName string
	StartTime   *time.Time
	EndTime     *time.Time
}

// RootSpan returns the first span without a parent, or nil when every
// span has one.
func (t *Trace) RootSpan() *Span {
	for i := range t.Spans {
		if t.Spans[i].ParentSpanID == "" {
			return &t.Spans[i]
		}
	}
	return nil
}

// DurationMS returns the trace duration in milliseconds, or nil when the
// trace is missing a start or end time.
func (t *Trace) DurationMS() *float64 {
	if t.StartTime == nil || t.EndTime == nil {
		return nil
	}
	ms := t.EndTime.Sub(*t.StartTime).Seconds() * 1000
	return &ms
}

// ============================================================================
// Wire Mapping
// ============================================================================

var spanKindToWire = map[SpanKind]wire.SpanKind{
	SpanKindUnspecified: wire.SpanKindUnspecified,
	SpanKindInternal:    wire.SpanKindInternal,
	SpanKindServer:      wire.SpanKindServer,
	SpanKindClient:      wire.SpanKindClient,
	SpanKindProducer:    wire.SpanKindProducer,
	SpanKindConsumer:    wire.SpanKindConsumer,
}

var spanKindNames = map[wire.SpanKind]SpanKind{
	wire.SpanKindUnspecified: SpanKindUnspecified,
	wire.SpanKindInternal:    SpanKindInternal,
	wire.SpanKindServer:      SpanKindServer,
	wire.SpanKindClient:      SpanKindClient,
	wire.SpanKindProducer:    SpanKindProducer,
	wire.SpanKindConsumer:    SpanKindConsumer,
}

func spanKindFromWire(k wire.SpanKind) SpanKind {
	if kind, ok := spanKindNames[k]; ok {
		return kind
	}
	return SpanKindUnspecified
}

var spanStatusToWire = map[SpanStatus]wire.SpanStatus{
	SpanStatusUnset: wire.SpanStatusUnset,
	SpanStatusOK:    wire.SpanStatusOK,
	SpanStatusError: wire.SpanStatusError,
}

var spanStatusNames = map[wire.SpanStatus]SpanStatus{
	wire.SpanStatusUnset: SpanStatusUnset,
	wire.SpanStatusOK:    SpanStatusOK,
	wire.SpanStatusError: SpanStatusError,
}

func spanStatusFromWire(s wire.SpanStatus) SpanStatus {
	if status, ok := spanStatusNames[s]; ok {
		return status
	}
	return SpanStatusUnset
}

func spanToWire(s Span) *wire.Span {
	w := &wire.Span{
		TraceID:       s.TraceID,
		SpanID:        s.SpanID,
		ParentSpanID:  s.ParentSpanID,
		Name:          s.Name,
		Kind:          spanKindToWire[s.Kind],
		EndTime:       s.EndTime,
		Status:        spanStatusToWire[s.Status],
		StatusMessage: s.StatusMessage,
		Attributes:    s.Attributes,
		ServiceName:   s.ServiceName,
	}
	if !s.StartTime.IsZero() {
		w.StartTime = &s.StartTime
	}
	return w
}

func spanFromWire(w *wire.Span) Span {
	s := Span{
		TraceID:       w.TraceID,
		SpanID:        w.SpanID,
		ParentSpanID:  w.ParentSpanID,
		Name:          w.Name,
		Kind:          spanKindFromWire(w.Kind),
		EndTime:       w.EndTime,
		Status:        spanStatusFromWire(w.Status),
		StatusMessage: w.StatusMessage,
		Attributes:    w.Attributes,
		ServiceName:   w.ServiceName,
	}
	if w.StartTime != nil {
		s.StartTime = *w.StartTime
	}
	return s
}

func traceFromWire(w *wire.Trace) Trace {
	t := Trace{
		TraceID:     w.TraceID,
		ServiceName: w.ServiceName,
		StartTime:   w.StartTime,
		EndTime:     w.EndTime,
	}
	if len(w.Spans) > 0 {
		t.Spans = make([]Span, 0, len(w.Spans))
		for _, ws := range w.Spans {
			if ws == nil {
				continue
			}
			t.Spans = append(t.Spans, spanFromWire(ws))
		}
	}
	return t
}

// ============================================================================
// Observe Client
// ============================================================================

// ObserveClient handles span ingestion and trace queries.
type ObserveClient struct {
	serviceClient
}

func newObserveClient(cfg *Config) (*ObserveClient, error) {
	sc, err := newServiceClient(cfg, ServiceObserve, wire.ObserveServiceName)
	if err != nil {
		return nil, err
	}
	return &ObserveClient{serviceClient: sc}, nil
}

// IngestSpans submits a batch of spans and returns the number the
// service accepted.
func (c *ObserveClient) IngestSpans(ctx context.Context, spans []Span) (int, error) {
	wireSpans := make([]*wire.Span, 0, len(spans))
	for _, s := range spans {
		wireSpans = append(wireSpans, spanToWire(s))
	}

	var resp wire.IngestSpansResponse
	err := c.invoke(ctx, "IngestSpans", &wire.IngestSpansRequest{Spans: wireSpans}, &resp)
	if err != nil {
		return 0, err
	}
	return int(resp.AcceptedCount), nil
}

// GetTrace retrieves a trace by ID. It returns nil, nil when the trace
// does not exist.
func (c *ObserveClient) GetTrace(ctx context.Context, traceID string) (*Trace, error) {
	var resp wire.GetTraceResponse
	err := c.invoke(ctx, "GetTrace", &wire.GetTraceRequest{TraceID: traceID}, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if resp.Trace == nil {
		return nil, nil
	}
	t := traceFromWire(resp.Trace)
	return &t, nil
}

// QueryTracesParams filters a trace query.
type QueryTracesParams struct {
	ServiceName string
	StartTime   *time.Time
	EndTime     *time.Time
	Limit       int
}

// QueryTraces returns traces matching the given filters.
func (c *ObserveClient) QueryTraces(ctx context.Context, params QueryTracesParams) ([]Trace, error) {
	req := &wire.QueryTracesRequest{
		ServiceName: params.ServiceName,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Limit:       limitOrDefault(params.Limit),
	}

	var resp wire.QueryTracesResponse
	if err := c.invoke(ctx, "QueryTraces", req, &resp); err != nil {
		return nil, err
	}

	traces := make([]Trace, 0, len(resp.Traces))
	for _, wt := range resp.Traces {
		if wt == nil {
			continue
		}
		traces = append(traces, traceFromWire(wt))
	}
	return traces, nil
}
