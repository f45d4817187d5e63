// Package config loads qwilo settings from flags, environment variables and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/gmail"
	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

// Setting keys. Each is also read from the upper-cased environment variable.
const (
	KeyAccount          = "account"
	KeySourceMode       = "source_mode"
	KeyGmailLabel       = "gmail_label"
	KeyOutputFolderID   = "output_folder_id"
	KeyDriveFolderID    = "drive_folder_id"
	KeyDriveRecursive   = "drive_recursive"
	KeyStartDate        = "start_date"
	KeyNamePattern      = "name_pattern"
	KeyPreferTranscript = "prefer_transcript"
	KeyGeminiAPIKey     = "gemini_api_key"
	KeyGeminiModel      = "gemini_model"
	KeyContentFocus     = "content_focus"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
)

// Instrumentation keys live under the instrumentation section of the file
// and keep the OpenTelemetry environment variable names.
var instrumentationEnv = map[string][]string{
	"instrumentation.enabled":          {"INSTRUMENTATION_ENABLED"},
	"instrumentation.service_name":     {"OTEL_SERVICE_NAME"},
	"instrumentation.instance_id":      {"OTEL_SERVICE_INSTANCE_ID"},
	"instrumentation.k8s_namespace":    {"K8S_NAMESPACE", "POD_NAMESPACE"},
	"instrumentation.k8s_pod_name":     {"K8S_POD_NAME", "HOSTNAME"},
	"instrumentation.metrics_exporter": {"METRICS_EXPORTER"},
	"instrumentation.tracing_exporter": {"TRACING_EXPORTER"},
	"instrumentation.otlp_endpoint":    {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"instrumentation.otlp_insecure":    {"OTEL_EXPORTER_OTLP_INSECURE"},
	"instrumentation.sampling_rate":    {"OTEL_TRACES_SAMPLER_ARG"},
	"instrumentation.detailed_labels":  {"METRICS_DETAILED_LABELS"},
}

// Transcript sources selectable with source_mode
const (
	SourceGmail = "gmail"
	SourceDrive = "drive"
)

// FileName is the config file looked up when none is given explicitly
const FileName = "qwilo"

// Config holds every qwilo setting
type Config struct {
	Account string `mapstructure:"account"`

	// SourceMode is gmail or drive; empty picks drive when a folder is
	// configured and gmail otherwise
	SourceMode string `mapstructure:"source_mode"`
	GmailLabel string `mapstructure:"gmail_label"`

	// OutputFolderID is the Drive folder generated documents are moved into
	OutputFolderID string `mapstructure:"output_folder_id"`

	DriveFolderID  string `mapstructure:"drive_folder_id"`
	DriveRecursive bool   `mapstructure:"drive_recursive"`
	StartDate      string `mapstructure:"start_date"`
	NamePattern    string `mapstructure:"name_pattern"`

	PreferTranscript bool `mapstructure:"prefer_transcript"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
	ContentFocus string `mapstructure:"content_focus"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Instrumentation Instrumentation `mapstructure:"instrumentation"`
}

// Instrumentation holds the telemetry settings used by serve
type Instrumentation struct {
	Enabled         bool    `mapstructure:"enabled"`
	ServiceName     string  `mapstructure:"service_name"`
	InstanceID      string  `mapstructure:"instance_id"`
	K8sNamespace    string  `mapstructure:"k8s_namespace"`
	K8sPodName      string  `mapstructure:"k8s_pod_name"`
	MetricsExporter string  `mapstructure:"metrics_exporter"`
	TracingExporter string  `mapstructure:"tracing_exporter"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure    bool    `mapstructure:"otlp_insecure"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
	DetailedLabels  bool    `mapstructure:"detailed_labels"`
}

// New returns a viper instance with qwilo defaults and environment bindings
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyAccount, google.DefaultAccount)
	v.SetDefault(KeyPreferTranscript, true)
	v.SetDefault(KeyGeminiModel, analyzer.DefaultModel)
	v.SetDefault(KeyContentFocus, analyzer.DefaultContentFocus)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatText)
	v.SetDefault(KeyDriveRecursive, false)
	v.SetDefault(KeyOutputFolderID, "")
	v.SetDefault(KeyDriveFolderID, "")
	v.SetDefault(KeyStartDate, "")
	v.SetDefault(KeyNamePattern, "")
	v.SetDefault(KeyGeminiAPIKey, "")
	v.SetDefault(KeySourceMode, "")
	v.SetDefault(KeyGmailLabel, "")

	for _, key := range []string{
		KeySourceMode, KeyGmailLabel,
		KeyOutputFolderID, KeyDriveFolderID, KeyDriveRecursive, KeyStartDate,
		KeyNamePattern, KeyPreferTranscript, KeyGeminiModel, KeyContentFocus,
		KeyLogLevel, KeyLogFormat,
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
	_ = v.BindEnv(KeyAccount, "GOOGLE_ACCOUNT")
	_ = v.BindEnv(KeyGeminiAPIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")

	defaults := instrumentation.DefaultConfig()
	v.SetDefault("instrumentation.enabled", defaults.Enabled)
	v.SetDefault("instrumentation.service_name", defaults.ServiceName)
	v.SetDefault("instrumentation.metrics_exporter", defaults.MetricsExporter)
	v.SetDefault("instrumentation.tracing_exporter", defaults.TracingExporter)
	v.SetDefault("instrumentation.sampling_rate", defaults.TraceSamplingRate)
	for key, env := range instrumentationEnv {
		_ = v.BindEnv(append([]string{key}, env...)...)
	}

	return v
}

// Load reads the config file into v and returns the merged settings.
//
// An explicit file must exist. Without one, qwilo.yaml is looked up in the
// working directory and then in the user config directory, and a missing
// file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "qwilo"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, must be one of: text, json", c.LogFormat)
	}
	if c.StartDate != "" {
		if _, err := drive.ParseModifiedAfter(c.StartDate); err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}
	}
	switch strings.ToLower(c.SourceMode) {
	case "", SourceGmail, SourceDrive:
	default:
		return fmt.Errorf("invalid source_mode %q, must be one of: gmail, drive", c.SourceMode)
	}
	return nil
}

// Source returns the transcript source. An explicit source_mode wins;
// otherwise a known Drive folder, from folder or drive_folder_id, selects
// drive and Gmail is used when there is none.
func (c *Config) Source(folder string) string {
	if mode := strings.ToLower(c.SourceMode); mode != "" {
		return mode
	}
	if folder != "" || c.DriveFolderID != "" {
		return SourceDrive
	}
	return SourceGmail
}

// SearchOptions returns the Gmail search for notes emails
func (c *Config) SearchOptions() gmail.SearchOptions {
	return gmail.SearchOptions{
		Label:     c.GmailLabel,
		StartDate: c.StartDate,
	}
}

// TabPolicy returns the tab selection policy for transcript documents
func (c *Config) TabPolicy() docs.TabSelectionPolicy {
	policy := docs.DefaultTabSelectionPolicy()
	policy.PreferTranscript = c.PreferTranscript
	return policy
}

// ListOptions returns the Drive listing options for the configured source folder
func (c *Config) ListOptions() drive.ListDocumentsOptions {
	return drive.ListDocumentsOptions{
		FolderID:      c.DriveFolderID,
		NamePattern:   c.NamePattern,
		ModifiedAfter: c.StartDate,
		Recursive:     c.DriveRecursive,
	}
}

// InstrumentationConfig returns the OpenTelemetry settings for a server
// reporting the given version
func (c *Config) InstrumentationConfig(version string) instrumentation.Config {
	in := c.Instrumentation
	return instrumentation.Config{
		ServiceName:       in.ServiceName,
		ServiceVersion:    version,
		ServiceInstanceID: in.InstanceID,
		K8sNamespace:      in.K8sNamespace,
		K8sPodName:        in.K8sPodName,
		Enabled:           in.Enabled,
		MetricsExporter:   in.MetricsExporter,
		TracingExporter:   in.TracingExporter,
		OTLPEndpoint:      in.OTLPEndpoint,
		OTLPInsecure:      in.OTLPInsecure,
		TraceSamplingRate: in.SamplingRate,
		DetailedLabels:    in.DetailedLabels,
	}
}

// GeminiConfig returns the analyzer settings
func (c *Config) GeminiConfig() analyzer.GeminiConfig {
	return analyzer.GeminiConfig{
		APIKey:       c.GeminiAPIKey,
		Model:        c.GeminiModel,
		ContentFocus: c.ContentFocus,
	}
}
