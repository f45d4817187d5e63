package docs

import (
	"context"

	docs "google.golang.org/api/docs/v1"

	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

// CreatedDocument describes a generated document
type CreatedDocument struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`

	// FolderID is set when the document was moved into a folder
	FolderID string `json:"folderId,omitempty"`

	// Operations is the number of edit operations replayed
	Operations int `json:"operations"`

	// RelocationError is set when the document was created but could not be
	// moved into the requested folder. The document itself is usable.
	RelocationError error `json:"-"`
}

// CreateDocument creates a document titled title from markdown-like content
// and, when folderID is set, moves it into that folder.
//
// Creation and formatting failures return a *WriteError; the remote store may
// still hold an empty or unformatted document in that case. A failed move is
// logged and reported through CreatedDocument.RelocationError instead.
func (c *Client) CreateDocument(ctx context.Context, title, content, folderID string) (*CreatedDocument, error) {
	return c.WriteLayout(ctx, title, ParseMarkdown(content), folderID)
}

// WriteLayout creates a document and replays layout into it as a single batch update
func (c *Client) WriteLayout(ctx context.Context, title string, layout *Layout, folderID string) (*CreatedDocument, error) {
	ops := BuildOperations(layout)

	var created *docs.Document
	err := c.observe(ctx, instrumentation.OperationCreate, "", func(ctx context.Context) error {
		var err error
		created, err = c.docsService.Documents.Create(&docs.Document{Title: title}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		c.metrics.RecordDocumentGenerated(ctx, instrumentation.StatusError)
		return nil, &WriteError{Title: title, Stage: StageCreate, Err: err}
	}

	result := &CreatedDocument{
		ID:         created.DocumentId,
		URL:        DocumentURL(created.DocumentId),
		Title:      created.Title,
		Operations: len(ops),
	}
	if result.Title == "" {
		result.Title = title
	}

	// Empty content leaves the new document blank; there is nothing to insert.
	if len(ops) > 0 {
		err = c.observe(ctx, instrumentation.OperationBatchUpdate, result.ID, func(ctx context.Context) error {
			_, err := c.docsService.Documents.BatchUpdate(result.ID, &docs.BatchUpdateDocumentRequest{
				Requests: Requests(ops),
			}).Context(ctx).Do()
			return err
		})
		if err != nil {
			c.metrics.RecordDocumentGenerated(ctx, instrumentation.StatusError)
			return nil, &WriteError{Title: title, DocumentID: result.ID, Stage: StageBatchUpdate, Err: err}
		}
		c.recordSpans(ctx, layout.Spans)
	}

	status := instrumentation.StatusSuccess
	if folderID != "" {
		if err := c.MoveDocument(ctx, result.ID, folderID); err != nil {
			c.logger.Warn("created document could not be moved",
				logging.DocumentID(result.ID),
				logging.FolderID(folderID),
				logging.Err(err))
			result.RelocationError = err
			status = instrumentation.StatusRelocationFailed
		} else {
			result.FolderID = drive.ExtractFolderID(folderID)
		}
	}
	c.metrics.RecordDocumentGenerated(ctx, status)

	c.logger.Info("created document",
		logging.DocumentID(result.ID),
		logging.Title(result.Title),
		"operations", len(ops))

	return result, nil
}

func (c *Client) recordSpans(ctx context.Context, spans []FormatSpan) {
	counts := make(map[FormatKind]int)
	for _, span := range spans {
		counts[span.Kind]++
	}
	for kind, n := range counts {
		c.metrics.RecordFormatSpans(ctx, kind.String(), n)
	}
}
