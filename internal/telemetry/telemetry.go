package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Service information
	ServiceName    = "curvecast"
	ServiceVersion = "1.0.0"
)

// InitTelemetry configures the global tracer provider with a stdout span
// exporter and W3C propagation. It returns a shutdown function that flushes
// pending spans. When disabled, a no-op shutdown is returned and the default
// (no-op) provider stays in place.
func InitTelemetry(enabled bool, environment string) (func(context.Context) error, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
			semconv.DeploymentEnvironmentName(environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}

// GetHTTPTracer returns the tracer used for HTTP request spans.
func GetHTTPTracer() trace.Tracer {
	return otel.Tracer(ServiceName + "/http")
}

// GetServiceTracer returns the tracer used for service-level spans.
func GetServiceTracer() trace.Tracer {
	return otel.Tracer(ServiceName + "/service")
}
