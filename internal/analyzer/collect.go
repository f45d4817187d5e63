package analyzer

import (
	"context"
	"fmt"

	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/gmail"
)

// UnknownDate is shown when a transcript's date cannot be determined
const UnknownDate = "Unknown date"

// Failure records a document that could not be turned into a Transcript
type Failure struct {
	ID  string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.ID, f.Err)
}

// FetchTranscripts loads the documents identified by ids, picking each
// document's tab with policy. Drive metadata supplies the date; when it cannot
// be read the document title is used with an unknown date. A document that
// fails to load is recorded as a Failure and the rest are still fetched.
func FetchTranscripts(ctx context.Context, client *docs.Client, ids []string, policy docs.TabSelectionPolicy) ([]Transcript, []Failure) {
	var (
		transcripts []Transcript
		failures    []Failure
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			failures = append(failures, Failure{ID: id, Err: err})
			continue
		}
		doc, err := client.GetDocument(ctx, id)
		if err != nil {
			failures = append(failures, Failure{ID: id, Err: err})
			continue
		}
		text, _, err := docs.DocumentText(doc, policy)
		if err != nil {
			failures = append(failures, Failure{ID: id, Err: err})
			continue
		}

		t := Transcript{ID: doc.DocumentId, Topic: doc.Title, Date: UnknownDate, Body: text}
		if file, err := client.Drive().GetFile(ctx, doc.DocumentId); err == nil {
			t = TranscriptFromFile(file, text)
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, failures
}

// FetchFolderTranscripts lists the documents of a Drive folder and loads
// their body text without tab content. Listing the folder itself must
// succeed; documents that fail to load are recorded as failures.
func FetchFolderTranscripts(ctx context.Context, client *docs.Client, opts drive.ListDocumentsOptions) ([]Transcript, []Failure, error) {
	files, err := client.Drive().ListDocuments(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	var (
		transcripts []Transcript
		failures    []Failure
	)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			failures = append(failures, Failure{ID: file.ID, Err: err})
			continue
		}
		text, err := client.FetchPlainDocumentText(ctx, file.ID)
		if err != nil {
			failures = append(failures, Failure{ID: file.ID, Err: err})
			continue
		}
		transcripts = append(transcripts, TranscriptFromFile(file, text))
	}
	return transcripts, failures, nil
}

// FetchEmailTranscripts loads the Google Docs linked from notes emails. The
// email's topic and date replace the document's, and a document linked from
// several emails is fetched once. Emails without a document link are
// recorded as failures.
func FetchEmailTranscripts(ctx context.Context, client *docs.Client, messages []*gmail.Message, policy docs.TabSelectionPolicy) ([]Transcript, []Failure) {
	var (
		transcripts []Transcript
		failures    []Failure
	)
	seen := make(map[string]bool)
	for _, msg := range messages {
		var ids []string
		for _, id := range msg.DocumentIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			if len(msg.DocumentIDs()) == 0 {
				failures = append(failures, Failure{ID: msg.ID, Err: gmail.ErrNoDocumentLink})
			}
			continue
		}

		found, failed := FetchTranscripts(ctx, client, ids, policy)
		failures = append(failures, failed...)
		for _, t := range found {
			if topic := msg.Topic(); topic != "" {
				t.Topic = topic
			}
			if !msg.Date.IsZero() {
				t.Date = msg.Date.Format(DateLayout)
			}
			t.Source = SourceGmail
			transcripts = append(transcripts, t)
		}
	}
	return transcripts, failures
}
