package instrumentation

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Config selects the exporters and the resource attributes of the
// OpenTelemetry providers. Values are usually filled from qwilo's config
// layer; DefaultConfig holds the fallbacks.
type Config struct {
	ServiceName       string
	ServiceVersion    string
	ServiceInstanceID string // hostname when empty

	// Kubernetes placement, attached to the resource when set
	K8sNamespace string
	K8sPodName   string

	// Enabled false turns every recorder into a no-op
	Enabled bool

	MetricsExporter string // prometheus, otlp or stdout
	TracingExporter string // otlp, stdout or none

	// OTLPEndpoint is host:port of the collector. Both OTLP exporters use it.
	OTLPEndpoint string
	OTLPInsecure bool

	// TraceSamplingRate is the ratio of root spans kept, within [0, 1]
	TraceSamplingRate float64

	// DetailedLabels adds the account label to tool metrics
	DetailedLabels bool
}

// Defaults used when nothing else is configured
const (
	DefaultServiceName       = "qwilo"
	DefaultTraceSamplingRate = 0.1
)

// DefaultConfig exports Prometheus metrics and no traces.
func DefaultConfig() Config {
	return Config{
		ServiceName:       DefaultServiceName,
		ServiceVersion:    "unknown",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: DefaultTraceSamplingRate,
	}
}

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// ErrMissingOTLPEndpoint is returned when an OTLP exporter has nowhere to send to
var ErrMissingOTLPEndpoint = errors.New("OTLP endpoint is required when using an OTLP exporter")

// Validate reports the first setting NewProvider could not honor. Empty
// exporter names are accepted and fall back to the defaults.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %v", c.MetricsExporter, metricsExporters)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %v", c.TracingExporter, tracingExporters)
	}
	if (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) && c.OTLPEndpoint == "" {
		return ErrMissingOTLPEndpoint
	}
	return nil
}

// Label values and settings shared by the recorders.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// A document whose relocation failed still counts as generated
	StatusRelocationFailed = "relocation_failed"

	ServiceDrive  = "drive"
	ServiceDocs   = "docs"
	ServiceGemini = "gemini"
	ServiceGmail  = "gmail"

	SourceTabs   = "tabs"
	SourcePlain  = "plain"
	SourceFolder = "folder"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 10 * time.Second
)
