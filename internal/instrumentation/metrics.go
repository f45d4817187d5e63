package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
	attrAccount   = "account"
	attrSource    = "source"
	attrKind      = "kind"
)

// Metrics records qwilo's observability metrics. A nil *Metrics, or one
// created without a meter, records nothing.
type Metrics struct {
	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Translator metrics
	documentsExtractedTotal metric.Int64Counter
	documentsGeneratedTotal metric.Int64Counter
	formatSpansTotal        metric.Int64Counter

	detailedLabels bool
}

// durationBuckets spans quick Drive lookups to slow Gemini generations
var durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}
	b := instrumentBuilder{meter: meter}

	m.googleAPIOperationsTotal = b.counter("google_api_operations_total", "Google API calls by service, operation and status", "{operation}")
	m.googleAPIOperationDuration = b.seconds("google_api_operation_duration_seconds", "Google API call duration")
	m.toolInvocationsTotal = b.counter("mcp_tool_invocations_total", "MCP tool invocations by tool and status", "{invocation}")
	m.toolDuration = b.seconds("mcp_tool_duration_seconds", "MCP tool execution duration")
	m.documentsExtractedTotal = b.counter("documents_extracted_total", "Documents flattened to text", "{document}")
	m.documentsGeneratedTotal = b.counter("documents_generated_total", "Documents generated from markdown", "{document}")
	m.formatSpansTotal = b.counter("format_spans_total", "Formatting spans replayed into generated documents", "{span}")

	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// instrumentBuilder keeps the first creation error so NewMetrics reads as a list
type instrumentBuilder struct {
	meter metric.Meter
	err   error
}

func (b *instrumentBuilder) counter(name, description, unit string) metric.Int64Counter {
	if b.err != nil {
		return nil
	}
	c, err := b.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		b.err = fmt.Errorf("failed to create %s counter: %w", name, err)
	}
	return c
}

func (b *instrumentBuilder) seconds(name, description string) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(description+" in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		b.err = fmt.Errorf("failed to create %s histogram: %w", name, err)
	}
	return h
}

// RecordGoogleAPIOperation counts one call to service (docs, drive, gmail, gemini)
// and records how long it took.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation counts one tool call. account becomes a label only
// with detailed labels on.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDocumentExtracted counts a flattened document by source (tabs, plain, folder)
func (m *Metrics) RecordDocumentExtracted(ctx context.Context, source string) {
	if m == nil || m.documentsExtractedTotal == nil {
		return
	}
	m.documentsExtractedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSource, source)))
}

// RecordDocumentGenerated counts a generation attempt by status
func (m *Metrics) RecordDocumentGenerated(ctx context.Context, status string) {
	if m == nil || m.documentsGeneratedTotal == nil {
		return
	}
	m.documentsGeneratedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordFormatSpans adds count spans of the given kind (heading1, heading2, bold)
func (m *Metrics) RecordFormatSpans(ctx context.Context, kind string, count int) {
	if m == nil || m.formatSpansTotal == nil || count <= 0 {
		return
	}
	m.formatSpansTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrKind, kind)))
}
