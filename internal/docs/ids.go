package docs

import (
	"regexp"
	"strings"
)

var documentURLPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// ExtractDocumentID returns the document ID from a Google Docs URL. Input
// that is not a document URL is returned trimmed, as it is assumed to be an ID.
func ExtractDocumentID(s string) string {
	s = strings.TrimSpace(s)
	if m := documentURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// DocumentURL returns the edit URL of a document
func DocumentURL(documentID string) string {
	return "https://docs.google.com/document/d/" + documentID + "/edit"
}
