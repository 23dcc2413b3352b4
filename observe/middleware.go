package observe

import (
	"context"
	"time"
)

// LookupFunc resolves a key to a value.
type LookupFunc func(ctx context.Context, key string) (string, error)

// Middleware wraps lookups with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: the wrapped function is safe for concurrent use if fn is.
//   - Errors: errors from fn are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver builds a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// WrapLookup instruments fn as the "lookup" operation served on route.
func (m *Middleware) WrapLookup(route string, fn LookupFunc) LookupFunc {
	return func(ctx context.Context, key string) (string, error) {
		req := Request{Operation: "lookup", Route: route, Key: key}

		ctx, span := m.tracer.StartSpan(ctx, req)
		start := time.Now()

		value, err := fn(ctx, key)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordRequest(ctx, req, duration, err)

		fields := []Field{
			{Key: "route", Value: route},
			{Key: "key", Value: key},
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			m.logger.Warn(ctx, "lookup failed", fields...)
		} else {
			m.logger.Debug(ctx, "lookup completed", fields...)
		}

		return value, err
	}
}
