// Package analyzer turns extracted meeting transcripts into written analyses.
//
// A Gemini model produces the analysis text for each transcript. The text
// uses the markdown-like line grammar understood by docs.ParseMarkdown, so
// the composed reports can be written to Google Docs with headings and bold
// runs intact.
package analyzer
