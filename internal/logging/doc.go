// Package logging provides structured logging helpers for qwilo.
//
// Loggers are plain slog loggers built with New from the configured level and
// format. Attribute constructors keep key names consistent across packages:
//
//	logger.Warn("document fetch failed",
//	    logging.DocumentID(id),
//	    logging.Err(err))
//
// Clients accept the small Logger interface, which *slog.Logger and
// SlogAdapter both satisfy.
package logging
