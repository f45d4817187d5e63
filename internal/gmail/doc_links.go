package gmail

import (
	"regexp"
)

// Link types reported by ExtractDocLinks
const (
	LinkDocument     = "document"
	LinkSpreadsheet  = "spreadsheet"
	LinkPresentation = "presentation"
	LinkDrive        = "drive"
)

// DocLink is a Google Docs or Drive link found in an email
type DocLink struct {
	URL        string `json:"url"`
	DocumentID string `json:"documentId"`
	Type       string `json:"type"`
}

var linkPatterns = []struct {
	regex    *regexp.Regexp
	linkType string
}{
	// https://docs.google.com/document/d/{documentId}/...
	{regexp.MustCompile(`https?://docs\.google\.com/document/(?:u/\d+/)?d/([a-zA-Z0-9_-]+)`), LinkDocument},
	// https://docs.google.com/spreadsheets/d/{documentId}/...
	{regexp.MustCompile(`https?://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`), LinkSpreadsheet},
	// https://docs.google.com/presentation/d/{documentId}/...
	{regexp.MustCompile(`https?://docs\.google\.com/presentation/d/([a-zA-Z0-9_-]+)`), LinkPresentation},
	// https://drive.google.com/file/d/{fileId}/...
	{regexp.MustCompile(`https?://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`), LinkDrive},
	// https://drive.google.com/open?id={fileId}
	{regexp.MustCompile(`https?://drive\.google\.com/open\?id=([a-zA-Z0-9_-]+)`), LinkDrive},
}

// ExtractDocLinks returns the Google Docs and Drive links in text, one per
// document ID, grouped by link type in the order the patterns are tried.
func ExtractDocLinks(text string) []*DocLink {
	var links []*DocLink
	seen := make(map[string]bool)

	for _, pattern := range linkPatterns {
		for _, match := range pattern.regex.FindAllStringSubmatch(text, -1) {
			id := match[1]
			if seen[id] {
				continue
			}
			seen[id] = true
			links = append(links, &DocLink{URL: match[0], DocumentID: id, Type: pattern.linkType})
		}
	}
	return links
}

// documentIDs returns the IDs of the Google Docs documents among links
func documentIDs(links []*DocLink) []string {
	var ids []string
	for _, link := range links {
		if link.Type == LinkDocument {
			ids = append(ids, link.DocumentID)
		}
	}
	return ids
}
