// Package docs translates between Google Docs content and flat text.
//
// In the extraction direction a document tree (paragraphs, text runs, tables
// and optionally several named tabs) is flattened into one string. SelectTab
// picks exactly one tab to read, preferring "Transcript", then "Notes", then
// the first tab.
//
// In the generation direction markdown-like text is parsed into flattened text
// plus formatting spans (ParseMarkdown), turned into an ordered list of edit
// operations (BuildOperations) and replayed against a new, empty document
// (Client.CreateDocument): one insertion of the whole text followed by
// paragraph and text style updates.
//
// Offsets in Layout and FormatSpan count characters. Edit operations use the
// Docs API convention of 1-based UTF-16 indices.
//
// Example usage:
//
//	client, err := docs.NewClientForAccount(ctx, "default")
//	if err != nil {
//	    return err
//	}
//
//	text := client.ExtractDocumentText(ctx, "1ABC123xyz", docs.DefaultTabSelectionPolicy())
//
//	created, err := client.CreateDocument(ctx, "10162026", "# Report\n\nOur **key** finding.\n", folderID)
package docs
