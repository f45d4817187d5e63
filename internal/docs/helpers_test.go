package docs

import (
	docs "google.golang.org/api/docs/v1"
)

func para(runs ...string) *docs.StructuralElement {
	elements := make([]*docs.ParagraphElement, 0, len(runs))
	for _, run := range runs {
		elements = append(elements, &docs.ParagraphElement{TextRun: &docs.TextRun{Content: run}})
	}
	return &docs.StructuralElement{Paragraph: &docs.Paragraph{Elements: elements}}
}

func table(rows ...[][]*docs.StructuralElement) *docs.StructuralElement {
	t := &docs.Table{}
	for _, row := range rows {
		r := &docs.TableRow{}
		for _, cell := range row {
			r.TableCells = append(r.TableCells, &docs.TableCell{Content: cell})
		}
		t.TableRows = append(t.TableRows, r)
	}
	return &docs.StructuralElement{Table: t}
}

func body(elements ...*docs.StructuralElement) *docs.Body {
	return &docs.Body{Content: elements}
}

func tab(title string, content *docs.Body, children ...*docs.Tab) *docs.Tab {
	return &docs.Tab{
		TabProperties: &docs.TabProperties{Title: title},
		DocumentTab:   &docs.DocumentTab{Body: content},
		ChildTabs:     children,
	}
}
