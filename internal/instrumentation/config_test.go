package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, DefaultServiceName, config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, ExporterNone, config.TracingExporter)
	assert.Equal(t, DefaultTraceSamplingRate, config.TraceSamplingRate)
	assert.False(t, config.DetailedLabels)
	require.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "empty exporters", config: Config{}},
		{name: "otlp traces with endpoint", config: Config{MetricsExporter: ExporterStdout, TracingExporter: ExporterOTLP, OTLPEndpoint: "collector:4318"}},
		{name: "full sampling", config: Config{TraceSamplingRate: 1}},
		{name: "negative sampling", config: Config{TraceSamplingRate: -0.5}, wantErr: "sampling rate"},
		{name: "sampling above one", config: Config{TraceSamplingRate: 1.5}, wantErr: "sampling rate"},
		{name: "unknown metrics exporter", config: Config{MetricsExporter: "statsd"}, wantErr: `invalid metrics exporter "statsd"`},
		{name: "unknown tracing exporter", config: Config{TracingExporter: "jaeger"}, wantErr: `invalid tracing exporter "jaeger"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_OTLPEndpoint(t *testing.T) {
	for _, config := range []Config{
		{MetricsExporter: ExporterOTLP, TracingExporter: ExporterNone},
		{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP},
	} {
		assert.ErrorIs(t, config.Validate(), ErrMissingOTLPEndpoint)
	}
}
