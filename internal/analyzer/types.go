package analyzer

import (
	"context"

	"github.com/teemow/qwilo/internal/drive"
)

// DateLayout is how transcript dates are shown in reports
const DateLayout = "Jan 02, 2006"

// Transcript sources
const (
	SourceDrive = "drive"
	SourceGmail = "gmail"
)

// Transcript is the text of one meeting document
type Transcript struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Date       string `json:"date"`
	Body       string `json:"body"`
	Source     string `json:"source,omitempty"`
	FolderPath string `json:"folderPath,omitempty"`
}

// TranscriptFromFile builds a Transcript for a Drive document whose text has
// already been extracted. The document name becomes the topic.
func TranscriptFromFile(file *drive.FileInfo, body string) Transcript {
	t := Transcript{
		ID:         file.ID,
		Topic:      file.Name,
		Body:       body,
		Source:     SourceDrive,
		FolderPath: file.FolderPath,
	}
	if !file.ModifiedTime.IsZero() {
		t.Date = file.ModifiedTime.Format(DateLayout)
	} else {
		t.Date = UnknownDate
	}
	return t
}

// Result is the analysis of one transcript. Err is set when the analysis failed.
type Result struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Date     string `json:"date"`
	Analysis string `json:"analysis,omitempty"`
	Err      error  `json:"-"`
}

// Failed reports whether the analysis failed
func (r Result) Failed() bool {
	return r.Err != nil
}

// Analyzer produces an analysis for a transcript
type Analyzer interface {
	Analyze(ctx context.Context, t Transcript) (string, error)
}

// AnalyzeAll analyzes transcripts one after the other. A failed transcript
// is recorded in its Result and does not stop the others. The context is
// checked between transcripts.
func AnalyzeAll(ctx context.Context, a Analyzer, transcripts []Transcript) []Result {
	results := make([]Result, 0, len(transcripts))
	for _, t := range transcripts {
		result := Result{ID: t.ID, Topic: t.Topic, Date: t.Date}
		if err := ctx.Err(); err != nil {
			result.Err = err
		} else {
			result.Analysis, result.Err = a.Analyze(ctx, t)
		}
		results = append(results, result)
	}
	return results
}
