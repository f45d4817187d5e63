package docs_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/common"
)

// CreateResult is the output of the document creating tools
type CreateResult struct {
	*docs.CreatedDocument
	Relocation string `json:"relocationError,omitempty"`
}

func newCreateResult(created *docs.CreatedDocument) CreateResult {
	result := CreateResult{CreatedDocument: created}
	if created.RelocationError != nil {
		result.Relocation = created.RelocationError.Error()
	}
	return result
}

func outputFolder(args map[string]interface{}, sc *server.ServerContext) string {
	if folder := common.StringArg(args, "folderId"); folder != "" {
		return folder
	}
	return sc.OutputFolderID()
}

func handleCreateDocument(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	content := common.StringArg(args, "content")
	if content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}
	title := common.StringArg(args, "title")
	if title == "" {
		title = analyzer.DocumentTitle(time.Now())
	}

	client, err := docsClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Docs client: %v", err)), nil
	}

	created, err := client.CreateDocument(ctx, title, content, outputFolder(args, sc))
	if err != nil {
		return mcp.NewToolResultError(describeWriteError(err)), nil
	}
	return common.JSONResult(newCreateResult(created))
}

func describeWriteError(err error) string {
	var writeErr *docs.WriteError
	if errors.As(err, &writeErr) && writeErr.DocumentID != "" {
		return fmt.Sprintf("%v (a partially written document remains at %s)", err, docs.DocumentURL(writeErr.DocumentID))
	}
	return err.Error()
}
