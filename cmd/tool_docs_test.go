package cmd

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/qwilo/internal/server"
)

func TestRegisterAllTools(t *testing.T) {
	tests := []struct {
		name     string
		opts     []server.Option
		wantTool map[string]bool
	}{
		{
			name: "read-only",
			opts: []server.Option{server.WithReadOnly(true)},
			wantTool: map[string]bool{
				"docs_extract_text":    true,
				"drive_list_documents": true,
				"drive_get_files":      true,
				"docs_create_document": false,
				"drive_move_file":      false,
			},
		},
		{
			name: "write mode",
			opts: []server.Option{server.WithReadOnly(false)},
			wantTool: map[string]bool{
				"docs_extract_text":      true,
				"docs_create_document":   true,
				"drive_move_file":        true,
				"docs_analyze_documents": false,
			},
		},
		{
			name: "write mode with analyzer",
			opts: []server.Option{server.WithReadOnly(false), server.WithAnalyzer(fakeAnalyzer{})},
			wantTool: map[string]bool{
				"docs_analyze_documents": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := server.NewServerContext(context.Background(), tt.opts...)
			t.Cleanup(func() { _ = sc.Shutdown() })
			s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

			require.NoError(t, registerAllTools(s, sc))

			tools := s.ListTools()
			for name, want := range tt.wantTool {
				_, ok := tools[name]
				assert.Equal(t, want, ok, name)
			}
		})
	}
}

func TestCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "docs_extract_text", want: "Google Docs Tools"},
		{name: "drive_move_file", want: "Google Drive Tools"},
		{name: "ping", want: "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryFromToolName(tt.name))
		})
	}
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("docs_create_document",
		mcp.WithDescription("Create a document"),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document content")),
		mcp.WithString("title", mcp.Description("Document title")),
	)

	want := "### docs_create_document\n\n" +
		"Create a document\n\n" +
		"**Arguments:**\n" +
		"- `content` (string, required): Document content\n" +
		"- `title` (string, optional): Document title\n\n"
	assert.Equal(t, want, generateToolMarkdown(tool))
}

func TestToolDocsCmd(t *testing.T) {
	a, _ := newTestApp(t)

	out, _, err := execute(a, "", "generate-docs")
	require.NoError(t, err)

	assert.Contains(t, out, "# MCP Tools Reference")
	assert.Contains(t, out, "- [Google Docs Tools](#google-docs-tools)")
	assert.Contains(t, out, "## Google Drive Tools")
	for _, name := range []string{"docs_create_document", "docs_analyze_documents", "drive_move_file", "drive_list_files"} {
		assert.Contains(t, out, "### "+name)
	}
}
