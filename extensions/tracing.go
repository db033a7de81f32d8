package extensions

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	scoped "github.com/pumped-fn/scoped-go"
)

const tracerName = "github.com/pumped-fn/scoped-go/extensions"

// TracingExtension wraps every scope operation in an OpenTelemetry span
// (scoped.resolve, scoped.set, scoped.remove, scoped.rebind) with key and
// scope attributes, recording errors on failure.
type TracingExtension struct {
	scoped.BaseExtension
	tracer trace.Tracer
}

// TracingOption configures the tracing extension
type TracingOption func(*TracingExtension)

// WithTracerProvider sets the provider to trace against; the default is the
// globally registered provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(e *TracingExtension) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// NewTracingExtension creates a new tracing extension.
func NewTracingExtension(opts ...TracingOption) *TracingExtension {
	e := &TracingExtension{
		BaseExtension: scoped.NewBaseExtension("tracing"),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.tracer == nil {
		e.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}

	return e
}

func (e *TracingExtension) Wrap(ctx context.Context, next func() (any, error), op *scoped.Operation) (any, error) {
	_, span := e.tracer.Start(ctx, "scoped."+string(op.Kind),
		trace.WithAttributes(
			attribute.String("scoped.key", op.Key.Name()),
			attribute.String("scoped.scope", scopeLabel(op.Scope)),
		),
	)
	defer span.End()

	result, err := next()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
