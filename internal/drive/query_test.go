package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildListFilesQuery(t *testing.T) {
	tests := []struct {
		name           string
		userQuery      string
		includeTrashed bool
		expected       string
	}{
		{
			name:      "user query with trashed excluded (default)",
			userQuery: "mimeType='application/pdf'",
			expected:  "(mimeType='application/pdf') and trashed=false",
		},
		{
			name:           "user query with trashed included",
			userQuery:      "mimeType='application/pdf'",
			includeTrashed: true,
			expected:       "mimeType='application/pdf'",
		},
		{
			name:     "no user query, exclude trashed (default)",
			expected: "trashed=false",
		},
		{
			name:           "no user query, include trashed",
			includeTrashed: true,
			expected:       "",
		},
		{
			name:      "query with or keeps its grouping",
			userQuery: "name contains 'house' or name contains 'water'",
			expected:  "(name contains 'house' or name contains 'water') and trashed=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildListFilesQuery(tt.userQuery, tt.includeTrashed)
			if result != tt.expected {
				t.Errorf("buildListFilesQuery(%q, %v) = %q, want %q",
					tt.userQuery, tt.includeTrashed, result, tt.expected)
			}
		})
	}
}

func TestFolderQueries(t *testing.T) {
	assert.Equal(t,
		"'abc' in parents and mimeType='application/vnd.google-apps.document'",
		folderDocumentsQuery("abc", time.Time{}))
	assert.Equal(t,
		"'abc' in parents and mimeType='application/vnd.google-apps.document' and modifiedTime >= '2026-10-01T00:00:00'",
		folderDocumentsQuery("abc", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t,
		"'abc' in parents and mimeType='application/vnd.google-apps.folder'",
		subfoldersQuery("abc"))
	assert.Equal(t, `'it\'s'`, quote("it's"))
}

func TestExtractFolderID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://drive.google.com/drive/folders/1a2B_c-D?usp=sharing", "1a2B_c-D"},
		{"https://drive.google.com/drive/u/0/folders/XYZ", "XYZ"},
		{"  1a2B_c-D  ", "1a2B_c-D"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFolderID(tt.input))
		})
	}
}

func TestParseModifiedAfter(t *testing.T) {
	got, err := ParseModifiedAfter("10162026")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseModifiedAfter("2026-10-16")
	assert.ErrorContains(t, err, "expected MMDDYYYY")

	_, err = ParseModifiedAfter("13012026")
	assert.Error(t, err)
}
