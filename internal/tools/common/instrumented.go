package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
	"github.com/teemow/qwilo/internal/server"
)

var errToolResult = errors.New("tool returned an error result")

// ToolHandler is the signature of an MCP tool handler. It aliases the func
// type so wrapped handlers can be passed straight to AddTool.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps handler in an mcp.tool span and records the
// invocation on the server's metrics. A result with IsError counts as a failure.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account := GetAccountFromArgs(request.GetArguments())

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.ToolAttributes(account, sc.ReadOnly())...)

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		spanErr := err
		if spanErr == nil && result != nil && result.IsError {
			spanErr = errToolResult
		}
		instrumentation.EndSpan(span, spanErr)

		status := instrumentation.StatusSuccess
		if spanErr != nil {
			status = instrumentation.StatusError
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, status, account, duration)
		sc.Logger().Debug("tool invoked",
			logging.Tool(toolName),
			logging.Account(account),
			logging.Status(status),
			"duration", duration)

		return result, err
	}
}
