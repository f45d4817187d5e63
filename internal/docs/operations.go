package docs

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf16"

	docs "google.golang.org/api/docs/v1"
)

// bodyStartIndex is the index of the first character of a document body.
// Index 0 holds the body's opening section break.
const bodyStartIndex = 1

// OperationKind identifies the variant of an EditOperation.
type OperationKind int

const (
	OpInsertText OperationKind = iota + 1
	OpSetParagraphStyle
	OpSetTextStyle
)

func (k OperationKind) String() string {
	switch k {
	case OpInsertText:
		return "insert_text"
	case OpSetParagraphStyle:
		return "set_paragraph_style"
	case OpSetTextStyle:
		return "set_text_style"
	default:
		return fmt.Sprintf("OperationKind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON output
func (k OperationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind by name
func (k *OperationKind) UnmarshalText(text []byte) error {
	for _, kind := range []OperationKind{OpInsertText, OpSetParagraphStyle, OpSetTextStyle} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown operation kind %q", text)
}

// EditOperation is one instruction replayed against an empty document.
// Indices are in the document store's coordinates: 1-based UTF-16 code units.
type EditOperation struct {
	Kind OperationKind `json:"kind"`

	// InsertText
	Index int64  `json:"index,omitempty"`
	Text  string `json:"text,omitempty"`

	// SetParagraphStyle and SetTextStyle
	StartIndex   int64 `json:"startIndex,omitempty"`
	EndIndex     int64 `json:"endIndex,omitempty"`
	HeadingLevel int   `json:"headingLevel,omitempty"`
	Bold         bool  `json:"bold,omitempty"`
}

// BuildOperations turns a layout into one InsertText of the whole text
// followed by a style operation per span.
//
// Style operations are emitted by descending start offset. With a single bulk
// insertion ahead of them the order does not change the result; it only keeps
// earlier ranges valid if insertions are ever interleaved. Empty text yields
// no operations.
func BuildOperations(layout *Layout) []EditOperation {
	if layout == nil || layout.Text == "" {
		return nil
	}

	index := newIndexMap(layout.Text)

	spans := slices.Clone(layout.Spans)
	slices.SortStableFunc(spans, func(a, b FormatSpan) int {
		return cmp.Compare(b.Start, a.Start)
	})

	ops := make([]EditOperation, 0, len(spans)+1)
	ops = append(ops, EditOperation{
		Kind:  OpInsertText,
		Index: bodyStartIndex,
		Text:  layout.Text,
	})

	for _, span := range spans {
		op := EditOperation{
			StartIndex: index.at(span.Start),
			EndIndex:   index.at(span.End),
		}
		switch span.Kind {
		case FormatHeading1, FormatHeading2:
			op.Kind = OpSetParagraphStyle
			op.HeadingLevel = span.Kind.HeadingLevel()
		case FormatBold:
			op.Kind = OpSetTextStyle
			op.Bold = true
		default:
			continue
		}
		ops = append(ops, op)
	}
	return ops
}

// Request converts the operation into a Docs API batchUpdate request
func (op EditOperation) Request() *docs.Request {
	switch op.Kind {
	case OpInsertText:
		return &docs.Request{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: op.Index},
				Text:     op.Text,
			},
		}
	case OpSetParagraphStyle:
		return &docs.Request{
			UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range: op.docsRange(),
				ParagraphStyle: &docs.ParagraphStyle{
					NamedStyleType: fmt.Sprintf("HEADING_%d", op.HeadingLevel),
				},
				Fields: "namedStyleType",
			},
		}
	case OpSetTextStyle:
		return &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range: op.docsRange(),
				TextStyle: &docs.TextStyle{
					Bold:            op.Bold,
					ForceSendFields: []string{"Bold"},
				},
				Fields: "bold",
			},
		}
	default:
		return nil
	}
}

func (op EditOperation) docsRange() *docs.Range {
	return &docs.Range{StartIndex: op.StartIndex, EndIndex: op.EndIndex}
}

// Requests converts an operation list into batchUpdate requests, keeping order
func Requests(ops []EditOperation) []*docs.Request {
	requests := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		if req := op.Request(); req != nil {
			requests = append(requests, req)
		}
	}
	return requests
}

// indexMap translates character offsets in flattened text into document
// indices. The Docs API counts UTF-16 code units, so characters outside the
// Basic Multilingual Plane take two index positions.
type indexMap []int64

func newIndexMap(text string) indexMap {
	m := make(indexMap, 0, len(text)+1)
	var units int64
	for _, r := range text {
		m = append(m, units)
		units += int64(utf16.RuneLen(r))
	}
	return append(m, units)
}

func (m indexMap) at(offset int) int64 {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(m) {
		offset = len(m) - 1
	}
	return bodyStartIndex + m[offset]
}
