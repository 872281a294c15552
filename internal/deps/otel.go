package deps

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// OTelSDK installs the global tracer provider with an OTLP/HTTP exporter.
// Tracing stays a no-op when OTEL_EXPORTER_OTLP_ENDPOINT is not set.
func OTelSDK(lifecycle fx.Lifecycle) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
		slog.Info("no OTLP endpoint configured, tracing disabled")
		return nil
	}

	exporter, err := otlptracehttp.New(context.Background())
	if err != nil {
		slog.Error("error creating OTLP trace exporter", "error", err)
		return err
	}

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tracerProvider)

	lifecycle.Append(fx.StopHook(func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.ForceFlush(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}))

	return nil
}
