package instrumentation

import "testing"

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{SourceTabs, "tabs"},
		{SourcePlain, "plain"},
		{SourceFolder, "folder"},
		{"webhook", "other"},
		{"", "other"},
		{"TABS", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := SourceLabel(tt.source); got != tt.expected {
				t.Errorf("SourceLabel(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}
