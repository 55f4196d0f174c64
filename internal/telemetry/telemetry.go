// Package telemetry wires OpenTelemetry tracing across the HTTP dispatch,
// cache-worker, and HSS-transport call chains (§5's asynchronous pipeline),
// grounded on the resource/trace-provider setup in
// itsneelabh-gomind/pkg/telemetry/otel.go. TraceID exposes the trace ID
// propagated through a request's context; the trail identifier on outbound
// router-notifier calls is whatever the caller of internal/notify passes,
// and no package in this module derives it from TraceID.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Config controls whether and how tracing is set up. The pack ships only
// the stdout exporter (go.mod carries no OTLP exporter); Exporter is kept
// as a field so a production build can swap it for a real one without
// changing call sites.
type Config struct {
	Enabled     bool
	ServiceName string
	Exporter    string // currently only "stdout" is wired
}

// Provider owns the process-wide TracerProvider and its shutdown.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// New sets up tracing per cfg and installs it as the global provider. When
// cfg.Enabled is false, New returns a Provider backed by a never-sampling
// TracerProvider, so callers don't need to branch on whether tracing is on.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
		return &Provider{tp: tp, tracer: tp.Tracer("cx-gateway")}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: build exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &Provider{tp: tp, tracer: tp.Tracer("cx-gateway")}, nil
}

// Shutdown flushes any pending spans and releases exporter resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Tracer returns the process tracer, for packages that start their own
// spans around a cache-worker job or an HSS round trip.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// WrapServer instruments a router-facing http.Handler (§4.3) with
// otelhttp, so every inbound request starts a span named after operation.
func WrapServer(operation string, handler http.Handler) http.Handler {
	return otelhttp.NewHandler(handler, operation)
}

// WrapClient instruments an outbound *http.Client's transport, so calls
// through internal/routernotify carry a span linked to the request that
// triggered them.
func WrapClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{}
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = otelhttp.NewTransport(base)
	return client
}

// TraceID extracts the current span's trace ID as a hex string, for use as
// the trail identifier on outbound HSS and router-notifier calls. Returns
// "" if ctx carries no active span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanAttributes returns the standard attribute set attached to every
// HSS/cache span: the Cx-level identity the request concerns.
func SpanAttributes(impi, impu string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if impi != "" {
		attrs = append(attrs, attribute.String("cx.impi", impi))
	}
	if impu != "" {
		attrs = append(attrs, attribute.String("cx.impu", impu))
	}
	return attrs
}
