package google

import (
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultOAuthScopes are the scopes qwilo requests:
//   - Google Docs: read transcripts, create and update generated documents
//   - Google Drive: list transcript folders and move generated documents
//   - Gmail: read meeting notes emails linking to transcripts
var DefaultOAuthScopes = []string{
	docs.DocumentsScope,
	drive.DriveScope,
	gmail.GmailReadonlyScope,
}
