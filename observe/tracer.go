package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Request describes one inbound operation for telemetry purposes.
type Request struct {
	Operation string // e.g. "lookup" (required)
	Route     string // HTTP route that carried the request (optional)
	Key       string // cache key (optional)
}

// SpanName returns hotcache.<operation>.
func (r Request) SpanName() string {
	return "hotcache." + r.Operation
}

// Validate checks that the request can be named.
func (r Request) Validate() error {
	if r.Operation == "" {
		return ErrMissingOperation
	}
	return nil
}

func (r Request) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("hotcache.operation", r.Operation),
	}
	if r.Route != "" {
		attrs = append(attrs, attribute.String("http.route", r.Route))
	}
	return attrs
}

// Tracer opens and closes spans for requests.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan is best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, req Request) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &otelTracer{tracer: t}
}

func (t *otelTracer) StartSpan(ctx context.Context, req Request) (context.Context, trace.Span) {
	attrs := req.attributes()
	if req.Key != "" {
		attrs = append(attrs, attribute.String("hotcache.key", req.Key))
	}
	return t.tracer.Start(ctx, req.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

func (t *otelTracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
