package docs_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/batch"
	"github.com/teemow/qwilo/internal/tools/common"
)

const documentIDsDescription = "A document ID or URL, or a JSON array of them"

// RegisterDocsTools registers the Google Docs tools with the MCP server.
// Tools that create documents are left out in read-only mode, and
// docs_analyze_documents is only registered when an analyzer is configured.
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	extractTool := mcp.NewTool("docs_extract_text",
		mcp.WithDescription("Extract the plain text of Google Docs. Multi-tab documents yield the Transcript tab, else the Notes tab, else the first tab."),
		mcp.WithString("documentIds",
			mcp.Required(),
			mcp.Description(documentIDsDescription),
		),
		mcp.WithBoolean("preferTranscript",
			mcp.Description("Prefer the Transcript tab over the Notes tab (default from configuration)"),
		),
		mcp.WithBoolean("plain",
			mcp.Description("Fetch without tab content and extract the document body only"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(extractTool, common.InstrumentedToolHandler("docs_extract_text", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExtractText(ctx, request, sc)
		}))

	previewTool := mcp.NewTool("docs_preview_operations",
		mcp.WithDescription("Show the text, formatting spans and edit operations a document created from this content would receive"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Markdown-like content: '# ' and '## ' headings, **bold**, '---' rules, '> ' quotes and '•' bullets"),
		),
	)
	s.AddTool(previewTool, common.InstrumentedToolHandler("docs_preview_operations", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePreviewOperations(ctx, request)
		}))

	if sc.ReadOnly() {
		return nil
	}

	createTool := mcp.NewTool("docs_create_document",
		mcp.WithDescription("Create a Google Doc from markdown-like content with headings and bold text applied"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Markdown-like content: '# ' and '## ' headings, **bold**, '---' rules, '> ' quotes and '•' bullets"),
		),
		mcp.WithString("title",
			mcp.Description("Document title (default: today's date as MMDDYYYY)"),
		),
		mcp.WithString("folderId",
			mcp.Description("Folder ID or URL to move the document into (default: configured output folder)"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("docs_create_document", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDocument(ctx, request, sc)
		}))

	if sc.Analyzer() != nil {
		registerAnalyzeTool(s, sc)
	}

	return nil
}

func docsClient(request mcp.CallToolRequest, sc *server.ServerContext) (*docs.Client, error) {
	return sc.DocsClientForAccount(common.GetAccountFromArgs(request.GetArguments()))
}

func tabPolicy(args map[string]interface{}, sc *server.ServerContext) docs.TabSelectionPolicy {
	policy := sc.TabPolicy()
	if prefer, ok := common.BoolArg(args, "preferTranscript"); ok {
		policy.PreferTranscript = prefer
	}
	return policy
}

func handleExtractText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseStringOrArray(args["documentIds"], "documentIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := docsClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Docs client: %v", err)), nil
	}

	policy := tabPolicy(args, sc)
	plain, _ := common.BoolArg(args, "plain")

	results := batch.ProcessBatch(ctx, ids, func(ctx context.Context, id string) (batch.Result, error) {
		if plain {
			text, err := client.FetchPlainDocumentText(ctx, id)
			return batch.Result{Result: text}, err
		}
		text, selection, err := client.FetchDocumentText(ctx, id, policy)
		if err != nil {
			return batch.Result{}, err
		}
		return batch.Result{Result: text, Note: selection.Note}, nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// Preview is the dry-run output of docs_preview_operations
type Preview struct {
	Text       string               `json:"text"`
	Spans      []docs.FormatSpan    `json:"spans"`
	Operations []docs.EditOperation `json:"operations"`
}

func handlePreviewOperations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := common.StringArg(request.GetArguments(), "content")
	if content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	layout := docs.ParseMarkdown(content)
	return common.JSONResult(Preview{
		Text:       layout.Text,
		Spans:      layout.Spans,
		Operations: docs.BuildOperations(layout),
	})
}
