// Package telemetry wires an OpenTelemetry tracer provider for the
// command-line binary, the same sdktrace.NewTracerProvider shape the
// corpus's orchestrator service uses to wire its exporter, with the
// collector-bound OTLP exporter swapped for a stdout exporter: a CLI run
// has no otel-collector sidecar to export to, so spans are written where
// the operator is already looking.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Shutdown flushes and stops the tracer provider installed by Init.
type Shutdown func(context.Context) error

// Init installs a global tracer provider that writes spans as indented
// JSON to stdout when verbose is true, or discards them (via a disabled
// sampler) otherwise. The verify package calls otel.Tracer(...)
// regardless; without Init it gets the SDK default no-op provider.
func Init(ctx context.Context, serviceName string, verbose bool) (Shutdown, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	sampler := sdktrace.NeverSample()
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(res),
	}

	if verbose {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("telemetry: building stdout exporter: %w", err)
		}
		opts[0] = sdktrace.WithSampler(sdktrace.AlwaysSample())
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
