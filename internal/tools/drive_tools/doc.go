// Package drive_tools provides MCP tools for finding and filing Google Docs in Drive.
//
// Available tools:
//   - drive_list_documents: List the Google Docs in a folder, optionally recursively
//   - drive_list_files: List and search files with Drive's query language
//   - drive_get_files: Get metadata for one or more files
//   - drive_move_file: Move a file into a folder or rename it (not in read-only mode)
//
// The Drive client shares the credentials of the account's Docs client, so all
// tools accept the same optional 'account' parameter as the Docs tools.
//
// Example tool usage:
//
//	drive_list_documents({
//	  folderId: "https://drive.google.com/drive/folders/abc123",
//	  namePattern: "standup",
//	  modifiedAfter: "01312025",
//	  recursive: true
//	})
package drive_tools
