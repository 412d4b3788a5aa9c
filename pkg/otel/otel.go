// Package otel wires OpenTelemetry tracing and metrics for the service.
package otel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gotel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"nftfavorites/pkg/logger"
)

// Config configures tracing. An empty Host disables export.
type Config struct {
	ServiceName string
	Host        string
	Probability float64
}

// MetricsConfig configures metrics. An empty Endpoint disables export.
type MetricsConfig struct {
	ServiceName string
	Endpoint    string
	Interval    time.Duration
}

type tracerKey struct{}

// InitTracing installs a global tracer provider exporting spans over OTLP/gRPC.
func InitTracing(log *logger.Logger, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	gotel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		tp := nooptrace.NewTracerProvider()
		gotel.SetTracerProvider(tp)
		log.Info(context.Background(), "tracing disabled")
		return tp, func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()
	exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(host), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}
	res, err := newResource(ctx, cfg.ServiceName)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Probability))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	gotel.SetTracerProvider(tp)
	log.Info(ctx, "tracing enabled", "host", host, "probability", cfg.Probability)
	return tp, tp.Shutdown, nil
}

// InitMetrics installs a global meter provider exporting over OTLP/HTTP.
func InitMetrics(log *logger.Logger, cfg MetricsConfig) (func(context.Context) error, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		gotel.SetMeterProvider(noop.NewMeterProvider())
		log.Info(context.Background(), "metrics disabled")
		return func(context.Context) error { return nil }, nil
	}

	host, insecure, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	ctx := context.Background()
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	res, err := newResource(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)
	gotel.SetMeterProvider(mp)
	log.Info(ctx, "metrics enabled", "endpoint", host)
	return mp.Shutdown, nil
}

func newResource(ctx context.Context, service string) (*resource.Resource, error) {
	if service == "" {
		service = "nftfavorites"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

func parseEndpoint(raw string) (string, bool, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("parse otlp endpoint: %w", err)
	}
	host := parsed.Host
	if host == "" {
		host = raw
	}
	return host, parsed.Scheme != "https", nil
}

// InjectTracing stores tracer in ctx for AddSpan.
func InjectTracing(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// AddSpan starts a span named name using the tracer stored by InjectTracing,
// falling back to the global provider.
func AddSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer, ok := ctx.Value(tracerKey{}).(trace.Tracer)
	if !ok || tracer == nil {
		tracer = gotel.Tracer("nftfavorites")
	}
	return tracer.Start(ctx, name)
}

// GetTraceID returns the hex trace id of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
