package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/common"
)

func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	moveFileTool := mcp.NewTool("drive_move_file",
		mcp.WithDescription("Move a document into a folder, or rename it. With folderId the folder becomes the file's only parent."),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file to move or rename"),
		),
		mcp.WithString("folderId",
			mcp.Description("Folder ID or URL that becomes the only parent"),
		),
		mcp.WithString("newName",
			mcp.Description("The new name for the file (leave empty to keep current name)"),
		),
		mcp.WithString("addParents",
			mcp.Description("Comma-separated list of folder IDs to add as parents"),
		),
		mcp.WithString("removeParents",
			mcp.Description("Comma-separated list of folder IDs to remove as parents"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(moveFileTool, common.InstrumentedToolHandler("drive_move_file", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveFile(ctx, request, sc)
		}))

	return nil
}

func handleMoveFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID := common.StringArg(args, "fileId")
	if fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	options := &drive.MoveOptions{
		NewName:       common.StringArg(args, "newName"),
		AddParents:    parseCommaList(common.StringArg(args, "addParents")),
		RemoveParents: parseCommaList(common.StringArg(args, "removeParents")),
	}
	folderID := common.StringArg(args, "folderId")

	if folderID == "" && options.NewName == "" && len(options.AddParents) == 0 && len(options.RemoveParents) == 0 {
		return mcp.NewToolResultError("At least one of folderId, newName, addParents, or removeParents must be specified"), nil
	}
	if folderID != "" && (len(options.AddParents) > 0 || len(options.RemoveParents) > 0) {
		return mcp.NewToolResultError("folderId cannot be combined with addParents or removeParents"), nil
	}

	client, err := driveClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Drive client: %v", err)), nil
	}

	var fileInfo *drive.FileInfo
	if folderID != "" {
		fileInfo, err = client.RelocateFile(ctx, fileID, folderID)
		if err == nil && options.NewName != "" {
			fileInfo, err = client.MoveFile(ctx, fileID, &drive.MoveOptions{NewName: options.NewName})
		}
	} else {
		fileInfo, err = client.MoveFile(ctx, fileID, options)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to move file: %v", err)), nil
	}

	return common.JSONResult(fileInfo)
}
