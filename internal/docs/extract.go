package docs

import (
	docs "google.golang.org/api/docs/v1"
)

// ExtractText returns the literal text of every text run under elements, in
// document order. Paragraph terminators come from the runs themselves; no
// newlines are added. Table cells are walked row by row and cell by cell, and
// their content is extracted recursively.
//
// Element kinds other than paragraphs and tables (section breaks, tables of
// contents, anything the API adds later) contribute no text.
func ExtractText(elements []*docs.StructuralElement) string {
	var out flatText
	appendElements(&out, elements)
	return out.String()
}

// ExtractBody returns the flattened text of a document body. A nil body yields "".
func ExtractBody(body *docs.Body) string {
	if body == nil {
		return ""
	}
	return ExtractText(body.Content)
}

func appendElements(out *flatText, elements []*docs.StructuralElement) {
	for _, element := range elements {
		if element == nil {
			continue
		}
		switch {
		case element.Paragraph != nil:
			appendParagraph(out, element.Paragraph)
		case element.Table != nil:
			appendTable(out, element.Table)
		}
	}
}

func appendParagraph(out *flatText, para *docs.Paragraph) {
	for _, elem := range para.Elements {
		if elem == nil || elem.TextRun == nil {
			continue
		}
		out.Append(elem.TextRun.Content)
	}
}

func appendTable(out *flatText, table *docs.Table) {
	for _, row := range table.TableRows {
		if row == nil {
			continue
		}
		for _, cell := range row.TableCells {
			if cell == nil {
				continue
			}
			appendElements(out, cell.Content)
		}
	}
}
