package test

import (
	"context"

	"github.com/DMarby/placeholder/internal/logger"
	"github.com/DMarby/placeholder/internal/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns a tracer that records nothing, for use in tests
func Tracer(log *logger.Logger) *tracing.Tracer {
	tp := trace.NewNoopTracerProvider()
	return &tracing.Tracer{
		ServiceName:    "placeholder-test",
		Log:            log,
		TracerProvider: tp,
		ShutdownFunc: func(context.Context) error {
			return nil
		},
		TracerInstance: tp.Tracer("placeholder-test"),
	}
}
