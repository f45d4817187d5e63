package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

const (
	// DefaultModel is the Gemini model used when none is configured
	DefaultModel = "gemini-2.5-flash"
	// DefaultContentFocus steers the analysis when no focus is configured
	DefaultContentFocus = "AI strategy and innovation for business leaders"
)

var (
	// ErrNoAPIKey is returned when no Gemini API key is configured
	ErrNoAPIKey = errors.New("gemini API key is required (set GEMINI_API_KEY or GOOGLE_API_KEY)")
	// ErrEmptyTranscript is returned for transcripts without text
	ErrEmptyTranscript = errors.New("transcript has no text")
	// ErrEmptyResponse is returned when the model answers without text
	ErrEmptyResponse = errors.New("model returned no text")
)

// GeminiConfig configures a Gemini analyzer
type GeminiConfig struct {
	APIKey       string
	Model        string
	ContentFocus string

	// BaseURL overrides the API endpoint
	BaseURL string
	// HTTPClient overrides the HTTP client
	HTTPClient *http.Client
}

// Gemini analyzes transcripts with a Gemini model
type Gemini struct {
	client  *genai.Client
	model   string
	focus   string
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Gemini analyzer
type Option func(*Gemini)

// WithLogger sets the logger for diagnostics
func WithLogger(logger logging.Logger) Option {
	return func(g *Gemini) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records model calls on m
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(g *Gemini) {
		g.metrics = m
	}
}

// NewGemini creates a Gemini analyzer using the Gemini API backend
func NewGemini(ctx context.Context, cfg GeminiConfig, opts ...Option) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &Gemini{
		client: client,
		model:  cfg.Model,
		focus:  cfg.ContentFocus,
		logger: logging.Discard(),
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.focus == "" {
		g.focus = DefaultContentFocus
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model returns the model name requests are sent to
func (g *Gemini) Model() string {
	return g.model
}

// Analyze sends the transcript to the model and returns its analysis
func (g *Gemini) Analyze(ctx context.Context, t Transcript) (string, error) {
	if strings.TrimSpace(t.Body) == "" {
		return "", fmt.Errorf("failed to analyze %q: %w", t.Topic, ErrEmptyTranscript)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(g.focus), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	}

	var text string
	err := instrumentation.ObserveGoogleAPI(ctx, g.metrics, instrumentation.ServiceGemini, instrumentation.OperationGenerate,
		func(ctx context.Context) error {
			resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(TranscriptPrompt(t)), config)
			if err != nil {
				return err
			}
			text = resp.Text()
			return nil
		},
		attribute.String("gemini.model", g.model))
	if err != nil {
		return "", fmt.Errorf("failed to analyze %q: %w", t.Topic, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("failed to analyze %q: %w", t.Topic, ErrEmptyResponse)
	}

	g.logger.Debug("analyzed transcript",
		logging.DocumentID(t.ID),
		logging.Title(t.Topic),
		"length", len(text))
	return text, nil
}
