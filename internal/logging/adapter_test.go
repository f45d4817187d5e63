package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	if NewSlogAdapter(nil).Logger != slog.Default() {
		t.Error("nil logger should fall back to slog.Default()")
	}
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	var logger Logger = NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", DocumentID("doc-1"))
	logger.Warn("warn message")
	logger.Error("error message", Err(nil))

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=\"debug message\" key=value",
		"level=INFO msg=\"info message\" document_id=doc-1",
		"level=WARN",
		"level=ERROR msg=\"error message\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}
