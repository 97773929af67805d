package oracle

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/drillgo-dev/drillgo/internal/observability"
)

// InstrumentedOracle wraps an Oracle with a span per request.
type InstrumentedOracle struct {
	oracle  Oracle
	enabled bool
}

// NewInstrumentedOracle wraps an oracle with tracing.
func NewInstrumentedOracle(oracle Oracle, enabled bool) *InstrumentedOracle {
	return &InstrumentedOracle{
		oracle:  oracle,
		enabled: enabled,
	}
}

// Name returns the underlying provider name
func (o *InstrumentedOracle) Name() string {
	return o.oracle.Name()
}

// Send delegates to the wrapped oracle inside a span.
func (o *InstrumentedOracle) Send(ctx context.Context, prompt string) (string, error) {
	if !o.enabled {
		return o.oracle.Send(ctx, prompt)
	}

	ctx, span := observability.StartSpan(ctx, fmt.Sprintf("oracle.%s.send", o.oracle.Name()),
		trace.WithAttributes(
			attribute.String("oracle.provider", o.oracle.Name()),
			attribute.Int("oracle.prompt_length", len(prompt)),
		),
	)
	defer span.End()

	startTime := time.Now()
	reply, err := o.oracle.Send(ctx, prompt)
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("oracle.duration_ms", duration.Milliseconds()),
		attribute.Bool("oracle.success", err == nil),
	)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("oracle.error", err.Error()))
		return "", err
	}

	span.SetAttributes(attribute.Int("oracle.reply_length", len(reply)))
	return reply, nil
}

// Wrap wraps an oracle with instrumentation if not already wrapped.
func Wrap(oracle Oracle) Oracle {
	if _, ok := oracle.(*InstrumentedOracle); ok {
		return oracle
	}
	return NewInstrumentedOracle(oracle, true)
}

// Unwrap returns the underlying oracle if wrapped, otherwise the oracle as-is.
func Unwrap(oracle Oracle) Oracle {
	if instrumented, ok := oracle.(*InstrumentedOracle); ok {
		return instrumented.oracle
	}
	return oracle
}
