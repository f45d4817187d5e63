package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Attribute keys shared by every package.
const (
	KeyAccount    = "account"
	KeyDocumentID = "document_id"
	KeyFolderID   = "folder_id"
	KeyTab        = "tab"
	KeyTitle      = "title"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyTool       = "tool"
)

// Log output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New builds a slog.Logger writing to w at the given level, as text or JSON.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, must be one of: text, json", format)
	}
}

// Attribute constructors keep key names consistent.

func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// DocumentID returns a slog attribute for a document identifier.
func DocumentID(id string) slog.Attr {
	return slog.String(KeyDocumentID, id)
}

// FolderID returns a slog attribute for a Drive folder identifier.
func FolderID(id string) slog.Attr {
	return slog.String(KeyFolderID, id)
}

// Tab returns a slog attribute for a document tab title.
func Tab(title string) slog.Attr {
	return slog.String(KeyTab, title)
}

// Title returns a slog attribute for a document title.
func Title(title string) slog.Attr {
	return slog.String(KeyTitle, title)
}

func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns the error attribute. A nil err yields an empty group, which
// slog omits.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
