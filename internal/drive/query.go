package drive

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// DocumentMimeType is the MIME type for Google Docs
	DocumentMimeType = "application/vnd.google-apps.document"

	// ModifiedAfterLayout is the MMDDYYYY layout of date filters
	ModifiedAfterLayout = "01022006"
)

var folderURLPattern = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)

// ExtractFolderID returns the folder ID from a Drive folder URL. Input that
// is not a folder URL is returned trimmed, as it is assumed to be an ID.
func ExtractFolderID(s string) string {
	s = strings.TrimSpace(s)
	if m := folderURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ParseModifiedAfter parses an MMDDYYYY date
func ParseModifiedAfter(s string) (time.Time, error) {
	t, err := time.Parse(ModifiedAfterLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected MMDDYYYY: %w", s, err)
	}
	return t, nil
}

// buildListFilesQuery combines a user query with the trashed filter
func buildListFilesQuery(userQuery string, includeTrashed bool) string {
	switch {
	case includeTrashed:
		return userQuery
	case userQuery == "":
		return "trashed=false"
	default:
		return "(" + userQuery + ") and trashed=false"
	}
}

func folderDocumentsQuery(folderID string, modifiedAfter time.Time) string {
	q := fmt.Sprintf("%s in parents and mimeType='%s'", quote(folderID), DocumentMimeType)
	if !modifiedAfter.IsZero() {
		q += fmt.Sprintf(" and modifiedTime >= '%s'", modifiedAfter.Format("2006-01-02T15:04:05"))
	}
	return q
}

func subfoldersQuery(folderID string) string {
	return fmt.Sprintf("%s in parents and mimeType='%s'", quote(folderID), FolderMimeType)
}

// quote renders s as a single-quoted Drive query string literal
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
