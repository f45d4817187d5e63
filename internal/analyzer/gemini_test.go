package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:       "test-key",
		Model:        "gemini-test",
		ContentFocus: "platform engineering",
		BaseURL:      srv.URL + "/",
		HTTPClient:   srv.Client(),
	})
	require.NoError(t, err)
	return g
}

func textResponse(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []interface{}{map[string]interface{}{"text": text}},
				},
			},
		},
	})
}

func TestGemini_Analyze(t *testing.T) {
	var body string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		body = string(raw)
		textResponse(w, "# Takeaways\n\n**Ship it**")
	})

	analysis, err := g.Analyze(context.Background(), Transcript{
		ID:    "doc1",
		Topic: "Weekly sync",
		Date:  "Mar 04, 2025",
		Body:  "Alice: we should ship it",
	})
	require.NoError(t, err)

	assert.Equal(t, "# Takeaways\n\n**Ship it**", analysis)
	assert.Contains(t, body, "Alice: we should ship it")
	assert.Contains(t, body, "Topic: Weekly sync")
	assert.Contains(t, body, "platform engineering")
}

func TestGemini_Analyze_Errors(t *testing.T) {
	t.Run("empty transcript is not sent", func(t *testing.T) {
		g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request %s", r.URL.Path)
		})
		_, err := g.Analyze(context.Background(), Transcript{Topic: "blank", Body: " \n"})
		assert.ErrorIs(t, err, ErrEmptyTranscript)
	})

	t.Run("api error", func(t *testing.T) {
		g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
		})
		_, err := g.Analyze(context.Background(), Transcript{Topic: "sync", Body: "text"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `failed to analyze "sync"`)
	})

	t.Run("empty answer", func(t *testing.T) {
		g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			textResponse(w, "")
		})
		_, err := g.Analyze(context.Background(), Transcript{Topic: "sync", Body: "text"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestNewGemini_Defaults(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	g, err := NewGemini(context.Background(), GeminiConfig{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, g.Model())
	assert.Equal(t, DefaultContentFocus, g.focus)
}

type fakeAnalyzer map[string]error

func (f fakeAnalyzer) Analyze(_ context.Context, t Transcript) (string, error) {
	if err := f[t.ID]; err != nil {
		return "", err
	}
	return "analysis of " + t.Topic, nil
}

func TestAnalyzeAll(t *testing.T) {
	boom := errors.New("boom")
	results := AnalyzeAll(context.Background(), fakeAnalyzer{"b": boom}, []Transcript{
		{ID: "a", Topic: "A"},
		{ID: "b", Topic: "B"},
		{ID: "c", Topic: "C"},
	})
	require.Len(t, results, 3)

	assert.Equal(t, "analysis of A", results[0].Analysis)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.True(t, results[1].Failed())
	assert.Equal(t, "analysis of C", results[2].Analysis)
}

func TestAnalyzeAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := AnalyzeAll(ctx, fakeAnalyzer{}, []Transcript{{ID: "a"}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
