// Package docs_tools registers the Google Docs MCP tools: text extraction
// with tab selection, a dry-run preview of the edit operations for
// markdown-like content, document creation and transcript analysis.
package docs_tools
