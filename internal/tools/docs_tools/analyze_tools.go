package docs_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/batch"
	"github.com/teemow/qwilo/internal/tools/common"
)

func registerAnalyzeTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	analyzeTool := mcp.NewTool("docs_analyze_documents",
		mcp.WithDescription("Analyze meeting transcripts stored as Google Docs and write the analysis to a new Google Doc"),
		mcp.WithString("documentIds",
			mcp.Required(),
			mcp.Description(documentIDsDescription),
		),
		mcp.WithBoolean("separate",
			mcp.Description("Write one document per transcript instead of a combined report"),
		),
		mcp.WithBoolean("preferTranscript",
			mcp.Description("Prefer the Transcript tab over the Notes tab (default from configuration)"),
		),
		mcp.WithString("folderId",
			mcp.Description("Folder ID or URL to move the documents into (default: configured output folder)"),
		),
		mcp.WithString("account",
			mcp.Description("Google account to use (default: 'default')"),
		),
	)
	s.AddTool(analyzeTool, common.InstrumentedToolHandler("docs_analyze_documents", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAnalyzeDocuments(ctx, request, sc)
		}))
}

// AnalyzeOutput is the output of docs_analyze_documents
type AnalyzeOutput struct {
	Documents []CreateResult `json:"documents"`
	Failures  []batch.Result `json:"failures,omitempty"`
}

func handleAnalyzeDocuments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseStringOrArray(args["documentIds"], "documentIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := docsClient(request, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create Docs client: %v", err)), nil
	}

	transcripts, fetchFailures := analyzer.FetchTranscripts(ctx, client, ids, tabPolicy(args, sc))

	var output AnalyzeOutput
	for _, f := range fetchFailures {
		output.Failures = append(output.Failures, batch.NewErrorResult(f.ID, f.Err))
	}

	results := analyzer.AnalyzeAll(ctx, sc.Analyzer(), transcripts)
	for _, r := range results {
		if r.Failed() {
			output.Failures = append(output.Failures, batch.NewErrorResult(r.ID, r.Err))
		}
	}

	now := time.Now()
	title := analyzer.DocumentTitle(now)
	folder := outputFolder(args, sc)

	var reports []string
	if separate, _ := common.BoolArg(args, "separate"); separate {
		for _, r := range results {
			if !r.Failed() {
				reports = append(reports, analyzer.ComposeReport(r))
			}
		}
	} else if report, _, err := analyzer.ComposeCombinedReport(results, now); err == nil {
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return mcp.NewToolResultError("No transcript could be analyzed:\n" + batch.FormatResults(output.Failures)), nil
	}

	for _, report := range reports {
		created, err := client.CreateDocument(ctx, title, report, folder)
		if err != nil {
			output.Failures = append(output.Failures, batch.NewErrorResult(title, fmt.Errorf("%s", describeWriteError(err))))
			continue
		}
		output.Documents = append(output.Documents, newCreateResult(created))
	}

	result, err := common.JSONResult(output)
	if err == nil && len(output.Documents) == 0 {
		result.IsError = true
	}
	return result, err
}
