// Package resources provides MCP resources for qwilo.
//
// Resources are read-only data sources that MCP clients can fetch without
// calling a tool: the settings the server runs with, and the selected text of
// a Google Doc addressed by URI.
package resources
