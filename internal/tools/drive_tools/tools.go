package drive_tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/common"
)

// RegisterDriveTools registers the Google Drive tools with the MCP server.
// drive_move_file is left out in read-only mode.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerFileTools(s, sc); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}

	if sc.ReadOnly() {
		return nil
	}

	if err := registerFolderTools(s, sc); err != nil {
		return fmt.Errorf("failed to register folder tools: %w", err)
	}
	return nil
}

// driveClient returns the Drive client sharing the account's Docs credentials
func driveClient(request mcp.CallToolRequest, sc *server.ServerContext) (*drive.Client, error) {
	client, err := sc.DocsClientForAccount(common.GetAccountFromArgs(request.GetArguments()))
	if err != nil {
		return nil, err
	}
	return client.Drive(), nil
}

// parseCommaList parses a comma-separated list of strings
func parseCommaList(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
