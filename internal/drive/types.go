package drive

import "time"

// FileInfo is the Drive metadata qwilo works with
type FileInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	CreatedTime  time.Time `json:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime"`
	WebViewLink  string    `json:"webViewLink,omitempty"`
	Parents      []string  `json:"parents,omitempty"`

	// FolderPath is where a listed document was found, relative to the
	// listed folder and slash-separated. Empty at the top level.
	FolderPath string `json:"folderPath,omitempty"`

	Owners  []User `json:"owners,omitempty"`
	Trashed bool   `json:"trashed"`
}

// User is a file owner
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// ListOptions controls a single files.list page
type ListOptions struct {
	// Query uses the Drive search syntax, see
	// https://developers.google.com/drive/api/guides/search-files
	Query string

	MaxResults     int    // page size, at most 1000
	OrderBy        string // e.g. "modifiedTime desc"
	PageToken      string
	IncludeTrashed bool
}

// MoveOptions renames a file or changes its parents. Empty fields are left alone.
type MoveOptions struct {
	NewName       string
	AddParents    []string
	RemoveParents []string
}

// ListDocumentsOptions selects the Google Docs listed from a folder
type ListDocumentsOptions struct {
	// FolderID is the folder to list; a folder URL is accepted too
	FolderID string

	// NamePattern keeps documents whose name contains it, ignoring case
	NamePattern string

	// ModifiedAfter keeps documents modified on or after this MMDDYYYY date.
	// An unparseable date is ignored with a warning.
	ModifiedAfter string

	// Recursive descends into sub-folders breadth-first
	Recursive bool
}
