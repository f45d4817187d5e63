package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/batch"
	"github.com/teemow/qwilo/internal/tools/common"
)

const defaultMaxResults = 100

func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listDocumentsTool := mcp.NewTool("drive_list_documents",
		mcp.WithDescription("List the Google Docs in a Drive folder, newest first. Use the IDs with docs_extract_text or docs_analyze_documents."),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("Folder ID or folder URL"),
		),
		mcp.WithString("namePattern",
			mcp.Description("Only documents whose name contains this text (case-insensitive)"),
		),
		mcp.WithString("modifiedAfter",
			mcp.Description("Only documents modified on or after this date, as MMDDYYYY"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Include documents in sub-folders (default: false)"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(listDocumentsTool, common.InstrumentedToolHandler("drive_list_documents", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListDocuments(ctx, request, sc)
		}))

	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files in Google Drive with optional filtering"),
		mcp.WithString("query",
			mcp.Description("Query in Google Drive's query language (e.g., \"name contains 'standup'\")"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default: 100, max: 1000)"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order (e.g., 'modifiedTime desc,name')"),
		),
		mcp.WithBoolean("includeTrashed",
			mcp.Description("Include trashed files in results (default: false)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token for retrieving the next page of results"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(listFilesTool, common.InstrumentedToolHandler("drive_list_files", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	getFilesTool := mcp.NewTool("drive_get_files",
		mcp.WithDescription("Get metadata for one or more files in Google Drive"),
		mcp.WithString("fileIds",
			mcp.Required(),
			mcp.Description("File ID (string) or array of file IDs to retrieve"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(getFilesTool, common.InstrumentedToolHandler("drive_get_files", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFiles(ctx, request, sc)
		}))

	return nil
}

func handleListDocuments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	folderID := common.StringArg(args, "folderId")
	if folderID == "" {
		return mcp.NewToolResultError("folderId is required"), nil
	}
	recursive, _ := common.BoolArg(args, "recursive")

	client, err := driveClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Drive client: %v", err)), nil
	}

	documents, err := client.ListDocuments(ctx, drive.ListDocumentsOptions{
		FolderID:      folderID,
		NamePattern:   common.StringArg(args, "namePattern"),
		ModifiedAfter: common.StringArg(args, "modifiedAfter"),
		Recursive:     recursive,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list documents: %v", err)), nil
	}
	if documents == nil {
		documents = []*drive.FileInfo{}
	}

	return common.JSONResult(map[string]interface{}{
		"count":     len(documents),
		"documents": documents,
	})
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	client, err := driveClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Drive client: %v", err)), nil
	}

	options := &drive.ListOptions{
		Query:     common.StringArg(args, "query"),
		OrderBy:   common.StringArg(args, "orderBy"),
		PageToken: common.StringArg(args, "pageToken"),
	}
	options.MaxResults = defaultMaxResults
	if maxResults, ok := args["maxResults"].(float64); ok && maxResults > 0 {
		options.MaxResults = int(maxResults)
	}
	options.IncludeTrashed, _ = common.BoolArg(args, "includeTrashed")

	files, nextPageToken, err := client.ListFiles(ctx, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}

	return common.JSONResult(map[string]interface{}{
		"files":         files,
		"nextPageToken": nextPageToken,
	})
}

func handleGetFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	fileIDs, err := batch.ParseStringOrArray(request.GetArguments()["fileIds"], "fileIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := driveClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Drive client: %v", err)), nil
	}

	results := batch.ProcessBatch(ctx, fileIDs, func(ctx context.Context, fileID string) (batch.Result, error) {
		fileInfo, err := client.GetFile(ctx, fileID)
		if err != nil {
			return batch.Result{}, err
		}
		data, err := json.Marshal(fileInfo)
		if err != nil {
			return batch.Result{}, err
		}
		return batch.Result{Result: string(data)}, nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
