package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer of every qwilo span.
const TracerName = "github.com/teemow/qwilo"

// Span attribute keys.
const (
	SpanAttrTool       = "mcp.tool"
	SpanAttrReadOnly   = "mcp.read_only"
	SpanAttrAccount    = "qwilo.account"
	SpanAttrService    = "google.service"
	SpanAttrOperation  = "google.operation"
	SpanAttrDocumentID = "google.document_id"
)

// DocumentAttributes describes a Google API call on one document or file.
// Empty values are left out.
func DocumentAttributes(account, documentID string) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if account != "" {
		attrs = append(attrs, attribute.String(SpanAttrAccount, account))
	}
	if documentID != "" {
		attrs = append(attrs, attribute.String(SpanAttrDocumentID, documentID))
	}
	return attrs
}

// ToolAttributes describes an MCP tool call.
func ToolAttributes(account string, readOnly bool) []attribute.KeyValue {
	attrs := DocumentAttributes(account, "")
	return append(attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
}

// StartToolSpan starts a server span named tool.<toolName>. The caller ends it.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return startSpan(ctx, "tool."+toolName, trace.SpanKindServer, attrs)
}

// StartGoogleAPISpan starts a client span named google.<service>.<operation>.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	}, attrs...)
	return startSpan(ctx, "google."+service+"."+operation, trace.SpanKindClient, attrs)
}

func startSpan(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
