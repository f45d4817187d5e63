// Package cmd implements the command-line interface for qwilo.
//
// This package provides the following commands:
//   - auth: Authorize a Google account
//   - extract: Print the text of Google Docs, picking the Transcript or Notes tab
//   - list: List the Google Docs of a Drive folder
//   - generate: Create a formatted Google Doc from markdown-like content
//   - analyze: Analyze transcripts with Gemini and write the reports to Google Docs
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
