package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestAttributes(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"account", Account("work"), KeyAccount, "work"},
		{"document id", DocumentID("1AbC"), KeyDocumentID, "1AbC"},
		{"folder id", FolderID("0Fold"), KeyFolderID, "0Fold"},
		{"tab", Tab("Transcript"), KeyTab, "Transcript"},
		{"title", Title("10162026"), KeyTitle, "10162026"},
		{"tool", Tool("docs_extract_text"), KeyTool, "docs_extract_text"},
		{"status", Status("success"), KeyStatus, "success"},
		{"error", Err(errors.New("boom")), KeyError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr_Nil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("done", Err(nil))

	if strings.Contains(buf.String(), KeyError) {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantErr   bool
		wantDebug bool
		wantJSON  bool
	}{
		{name: "text info", level: "info", format: "text"},
		{name: "default format", level: "INFO", format: ""},
		{name: "json debug", level: "debug", format: "json", wantDebug: true, wantJSON: true},
		{name: "warn", level: "warn", format: "text"},
		{name: "invalid level", level: "loud", format: "text", wantErr: true},
		{name: "invalid format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(&buf, tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			logger.Debug("debug line")
			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v", got, tt.wantDebug)
			}
			if tt.wantJSON && !strings.HasPrefix(buf.String(), "{") {
				t.Errorf("expected JSON output, got %q", buf.String())
			}
		})
	}
}
