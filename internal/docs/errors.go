package docs

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContent is returned when a document has neither tabs nor a body
	ErrNoContent = errors.New("document has no tabs and no body")
	// ErrEmptyDocumentID is returned when a document ID is required but missing
	ErrEmptyDocumentID = errors.New("documentID is required")
)

// Stages of a document write
const (
	StageCreate      = "create"
	StageBatchUpdate = "batch_update"
)

// WriteError reports a failed document creation or batch update.
// DocumentID is empty when the document was never created.
type WriteError struct {
	Title      string
	DocumentID string
	Stage      string
	Err        error
}

func (e *WriteError) Error() string {
	if e.DocumentID == "" {
		return fmt.Sprintf("failed to %s document %q: %v", e.Stage, e.Title, e.Err)
	}
	return fmt.Sprintf("failed to %s document %q (%s): %v", e.Stage, e.Title, e.DocumentID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
