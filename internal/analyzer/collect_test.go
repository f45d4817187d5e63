package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"

	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/gmail"
	"github.com/teemow/qwilo/internal/googletest"
)

func paragraphBody(text string) *docsapi.Body {
	return &docsapi.Body{Content: []*docsapi.StructuralElement{{
		Paragraph: &docsapi.Paragraph{Elements: []*docsapi.ParagraphElement{{
			TextRun: &docsapi.TextRun{Content: text},
		}}},
	}}}
}

func newDocsClient(t *testing.T) (*docs.Client, *googletest.Server) {
	t.Helper()
	backend := googletest.NewServer(t)
	client, err := docs.NewClientWithServiceOptions(context.Background(), "test", backend.ClientOptions())
	require.NoError(t, err)
	return client, backend
}

func TestFetchTranscripts(t *testing.T) {
	client, backend := newDocsClient(t)
	backend.AddDocument(&docsapi.Document{
		DocumentId: "standup",
		Title:      "Standup doc",
		Tabs: []*docsapi.Tab{
			{TabProperties: &docsapi.TabProperties{Title: "Notes"}, DocumentTab: &docsapi.DocumentTab{Body: paragraphBody("notes\n")}},
			{TabProperties: &docsapi.TabProperties{Title: "Transcript"}, DocumentTab: &docsapi.DocumentTab{Body: paragraphBody("Alice: hi\n")}},
		},
	}, &driveapi.File{Name: "Daily Standup", ModifiedTime: "2025-03-04T10:00:00Z"})
	backend.AddDocument(&docsapi.Document{DocumentId: "empty"}, nil)

	transcripts, failures := FetchTranscripts(context.Background(), client,
		[]string{"standup", "empty", "missing"}, docs.DefaultTabSelectionPolicy())

	require.Len(t, transcripts, 1)
	assert.Equal(t, Transcript{
		ID:     "standup",
		Topic:  "Daily Standup",
		Date:   "Mar 04, 2025",
		Body:   "Alice: hi\n",
		Source: "drive",
	}, transcripts[0])

	require.Len(t, failures, 2)
	assert.Equal(t, "empty", failures[0].ID)
	assert.ErrorIs(t, failures[0].Err, docs.ErrNoContent)
	assert.Equal(t, "missing", failures[1].ID)
	assert.True(t, docs.IsNotFound(failures[1].Err))
}

func TestFetchTranscripts_Canceled(t *testing.T) {
	client, _ := newDocsClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transcripts, failures := FetchTranscripts(ctx, client, []string{"a", "b"}, docs.DefaultTabSelectionPolicy())
	assert.Empty(t, transcripts)
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[1].Err, context.Canceled)
}

func TestFetchFolderTranscripts(t *testing.T) {
	client, backend := newDocsClient(t)
	backend.AddDocument(&docsapi.Document{DocumentId: "retro", Body: paragraphBody("We look back.\n")},
		&driveapi.File{Name: "Retro", Parents: []string{"meetings"}, ModifiedTime: "2025-03-01T10:00:00Z"})
	backend.AddDocument(&docsapi.Document{DocumentId: "elsewhere", Body: paragraphBody("no\n")},
		&driveapi.File{Name: "Elsewhere", Parents: []string{"other"}})

	transcripts, failures, err := FetchFolderTranscripts(context.Background(), client,
		drive.ListDocumentsOptions{FolderID: "meetings"})
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, transcripts, 1)
	assert.Equal(t, "Retro", transcripts[0].Topic)
	assert.Equal(t, "Mar 01, 2025", transcripts[0].Date)
	assert.Equal(t, "We look back.\n", transcripts[0].Body)
	assert.Equal(t, []string{"false"}, backend.IncludeTabs())

	backend.Fail(googletest.FailList)
	_, _, err = FetchFolderTranscripts(context.Background(), client, drive.ListDocumentsOptions{FolderID: "meetings"})
	assert.Error(t, err)
}

func TestFailure_Error(t *testing.T) {
	assert.Equal(t, "doc: boom", Failure{ID: "doc", Err: errors.New("boom")}.Error())
}

func TestFetchEmailTranscripts(t *testing.T) {
	client, backend := newDocsClient(t)
	backend.AddDocument(&docsapi.Document{DocumentId: "weekly", Title: "Weekly sync - Transcript", Body: paragraphBody("We met.\n")},
		&driveapi.File{Name: "Weekly sync - Transcript", ModifiedTime: "2025-03-09T10:00:00Z"})

	linked := gmail.ExtractDocLinks("https://docs.google.com/document/d/weekly/edit")
	messages := []*gmail.Message{
		{ID: "m1", Subject: "Notes: “Weekly sync” Mar 4, 2025", Date: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), DocLinks: linked},
		{ID: "m2", Subject: "Re: Notes: “Weekly sync”", DocLinks: linked},
		{ID: "m3", Subject: "Notes: Retro"},
		{ID: "m4", Subject: "Notes: Gone", DocLinks: gmail.ExtractDocLinks("https://docs.google.com/document/d/missing/edit")},
	}

	transcripts, failures := FetchEmailTranscripts(context.Background(), client, messages, docs.DefaultTabSelectionPolicy())

	require.Len(t, transcripts, 1)
	assert.Equal(t, Transcript{
		ID:     "weekly",
		Topic:  "Weekly sync",
		Date:   "Mar 04, 2025",
		Body:   "We met.\n",
		Source: SourceGmail,
	}, transcripts[0])

	require.Len(t, failures, 2)
	assert.Equal(t, "m3", failures[0].ID)
	assert.ErrorIs(t, failures[0].Err, gmail.ErrNoDocumentLink)
	assert.Equal(t, "missing", failures[1].ID)
}
