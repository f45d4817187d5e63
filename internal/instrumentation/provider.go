package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider owns the meter and tracer providers and the Metrics recorder
// built on top of them.
type Provider struct {
	meters     *metric.MeterProvider
	tracers    *sdktrace.TracerProvider
	metrics    *Metrics
	prometheus bool
}

// NewProvider creates the OpenTelemetry providers described by config and
// installs them globally. A disabled config yields a provider whose Metrics
// records nothing.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{metrics: &Metrics{}}, nil
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instrumentation config: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(config)...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	reader, err := newMetricReader(ctx, config)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		meters: metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(reader)),
	}
	_, p.prometheus = reader.(*prometheus.Exporter)

	sampler, exporter, err := newSpanExporter(ctx, config)
	if err != nil {
		return nil, errors.Join(err, p.meters.Shutdown(ctx))
	}
	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res), sdktrace.WithSampler(sampler)}
	if exporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	p.tracers = sdktrace.NewTracerProvider(traceOpts...)

	p.metrics, err = NewMetrics(p.meters.Meter(config.ServiceName), config.DetailedLabels)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create metrics recorder: %w", err), p.Shutdown(ctx))
	}

	otel.SetMeterProvider(p.meters)
	otel.SetTracerProvider(p.tracers)
	return p, nil
}

func resourceAttributes(config Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	}

	instanceID := config.ServiceInstanceID
	if instanceID == "" {
		instanceID, _ = os.Hostname()
	}
	if instanceID != "" {
		attrs = append(attrs, semconv.ServiceInstanceID(instanceID))
	}
	if config.K8sNamespace != "" {
		attrs = append(attrs, semconv.K8SNamespaceName(config.K8sNamespace))
	}
	if config.K8sPodName != "" {
		attrs = append(attrs, semconv.K8SPodName(config.K8sPodName))
	}
	return attrs
}

// newMetricReader returns the Prometheus exporter itself, which is a pull
// reader, or a periodic reader around a push exporter.
func newMetricReader(ctx context.Context, config Config) (metric.Reader, error) {
	var (
		exporter metric.Exporter
		err      error
	)
	switch config.MetricsExporter {
	case ExporterPrometheus, "":
		reader, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		return reader, nil
	case ExporterOTLP:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.OTLPEndpoint)}
		if config.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err = otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		slog.Warn("stdout metrics exporter enabled, use it for debugging only", "component", "instrumentation")
		exporter, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s metrics exporter: %w", config.MetricsExporter, err)
	}
	return metric.NewPeriodicReader(exporter, metric.WithInterval(DefaultMetricInterval)), nil
}

// newSpanExporter returns a nil exporter and a sampler that drops every
// span when tracing is off.
func newSpanExporter(ctx context.Context, config Config) (sdktrace.Sampler, sdktrace.SpanExporter, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch config.TracingExporter {
	case ExporterNone, "":
		return sdktrace.NeverSample(), nil, nil
	case ExporterOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(config.OTLPEndpoint)}
		if config.OTLPInsecure {
			slog.Warn("OTLP traces sent without TLS; spans carry document IDs",
				"component", "instrumentation",
				"endpoint", config.OTLPEndpoint,
			)
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		slog.Warn("stdout trace exporter enabled, use it for debugging only", "component", "instrumentation")
		exporter, err = stdouttrace.New()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s trace exporter: %w", config.TracingExporter, err)
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.TraceSamplingRate)), exporter, nil
}

// Metrics returns the metrics recorder.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Tracer returns a tracer, a no-op one when instrumentation is disabled.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p.tracers == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tracers.Tracer(name)
}

// ServesPrometheus reports whether metrics go to the Prometheus default
// registry and need a scrape endpoint.
func (p *Provider) ServesPrometheus() bool {
	return p.prometheus
}

// Enabled reports whether the providers export anything.
func (p *Provider) Enabled() bool {
	return p.meters != nil
}

// Shutdown flushes pending telemetry and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.meters != nil {
		if err := p.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}
	if p.tracers != nil {
		if err := p.tracers.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
