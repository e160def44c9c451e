// Package telemetry sets up OpenTelemetry tracing for the gateway. Spans
// are exported over OTLP HTTP to a local collector or agent; when telemetry
// is disabled the gateway receives a nil tracer and emits nothing.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "concierge"

// Provider owns the tracer provider and its exporter.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup creates an OTLP HTTP exporter for the given endpoint (host:port)
// and a batching tracer provider around it. The endpoint is assumed to be
// a local collector, so the connection is plain HTTP.
func Setup(ctx context.Context, endpoint string, version string, logger *slog.Logger) (*Provider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	logger.Info("telemetry enabled", "endpoint", endpoint)
	return &Provider{tp: tp}, nil
}

// Tracer returns the tracer handed to the gateway.
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(serviceName)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
