// Package tracing configures the global OpenTelemetry tracer provider used
// by the resolver spans.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName identifies this service in exported spans.
const ServiceName = "blockpress"

// Provider owns the SDK tracer provider when export is enabled.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// NewProvider installs a global tracer provider for exporter. An empty
// exporter leaves the default no-op provider in place.
func NewProvider(ctx context.Context, exporter, endpoint string) (*Provider, error) {
	var exp sdktrace.SpanExporter
	var err error

	switch exporter {
	case "":
		return &Provider{}, nil
	case "stdout":
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case "otlp":
		exp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", exporter)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(provider)

	return &Provider{provider: provider}, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
