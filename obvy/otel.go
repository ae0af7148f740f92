package radial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "radial"

// InitOTelHNY uses the Honeycomb library to interface with OTel
func InitOTelHNY() (func(), error) {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(ServiceName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure OpenTelemetry: %w", err)
	}
	return func() { otelShutdown() }, nil
}

// InitOTelGRF uses the Grafana recommended configuration including Baggage for propagation.
// The exporter endpoint comes from the standard OTEL_EXPORTER_OTLP_* variables.
func InitOTelGRF(ctx context.Context) (func(), error) {
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			slog.Error("Tracer shutdown failed", slog.Any("Error", err))
		}
	}, nil
}

// InitOTel picks a setup by name: "honeycomb", "grafana", or "" for none
func InitOTel(ctx context.Context, name string) (func(), error) {
	switch name {
	case "":
		return func() {}, nil
	case "honeycomb":
		return InitOTelHNY()
	case "grafana":
		return InitOTelGRF(ctx)
	}
	return nil, fmt.Errorf("unknown otel setup: %s", name)
}

// Tracer is the face's tracer from the global provider,
// a no-op until one of the Init functions has run
func Tracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}
