package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/bookstore/backend"

// SpanOption configures a span at creation time.
type SpanOption func(*spanConfig)

type spanConfig struct {
	attributes []attribute.KeyValue
}

// WithAttribute attaches an attribute to the span being started.
func WithAttribute(key string, value interface{}) SpanOption {
	return func(c *spanConfig) {
		c.attributes = append(c.attributes, toAttribute(key, value))
	}
}

// StartSpan starts a named span under the global tracer. Callers must end
// the returned span.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, trace.Span) {
	cfg := &spanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	if len(cfg.attributes) > 0 {
		span.SetAttributes(cfg.attributes...)
	}
	return ctx, span
}

// RecordError marks the span as failed and records the error event.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes adds attributes to the current span in ctx.
func SetAttributes(ctx context.Context, kvs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(kvs...)
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
