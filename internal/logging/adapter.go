package logging

import "log/slog"

// Logger is what qwilo's clients log through. Arguments after msg are slog
// key-value pairs or slog.Attr values, so an *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter is a Logger backed by an *slog.Logger.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter wraps logger, falling back to slog.Default() for nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{Logger: logger}
}

// Discard returns a Logger that drops everything.
func Discard() *SlogAdapter {
	return NewSlogAdapter(slog.New(slog.DiscardHandler))
}
