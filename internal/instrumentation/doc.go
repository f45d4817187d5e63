// Package instrumentation provides OpenTelemetry metrics and tracing for qwilo.
//
// # Metrics
//
// Google API metrics:
//   - google_api_operations_total: Counter of Docs, Drive and Gemini calls by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of call durations
//
// Translator metrics:
//   - documents_extracted_total: Counter of flattened documents by source (tabs, plain, folder)
//   - documents_generated_total: Counter of generated documents by status
//   - format_spans_total: Counter of replayed formatting spans by kind
//
// MCP tool metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Google API
// calls (google.<service>.<operation>).
//
// # Configuration
//
// Config is plain data. qwilo fills it from the instrumentation section of
// its config file and from the usual variables: INSTRUMENTATION_ENABLED,
// METRICS_EXPORTER, TRACING_EXPORTER, OTEL_EXPORTER_OTLP_ENDPOINT,
// OTEL_TRACES_SAMPLER_ARG and OTEL_SERVICE_NAME.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, cfg.InstrumentationConfig(version))
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	err = instrumentation.ObserveGoogleAPI(ctx, provider.Metrics(), instrumentation.ServiceDocs,
//		instrumentation.OperationGet, func(ctx context.Context) error {
//			doc, err = call.Context(ctx).Do()
//			return err
//		})
package instrumentation
