package drive_tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"

	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/googletest"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/batch"
)

func newServerContext(t *testing.T, opts ...server.Option) (*server.ServerContext, *googletest.Server) {
	t.Helper()
	backend := googletest.NewServer(t)
	opts = append([]server.Option{server.WithServiceOptions(backend.ClientOptions()...)}, opts...)
	sc := server.NewServerContext(context.Background(), opts...)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, backend
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

// seedFolders stores meetings/{standup, retro} and meetings/2025/{planning}
func seedFolders(backend *googletest.Server) {
	backend.AddFile(&driveapi.File{Id: "meetings", Name: "Meetings", MimeType: drive.FolderMimeType})
	backend.AddFile(&driveapi.File{Id: "y2025", Name: "2025", MimeType: drive.FolderMimeType, Parents: []string{"meetings"}})

	backend.AddDocument(&docsapi.Document{DocumentId: "standup", Title: "Standup"},
		&driveapi.File{Name: "Daily Standup", Parents: []string{"meetings"}, ModifiedTime: "2025-03-04T10:00:00Z"})
	backend.AddDocument(&docsapi.Document{DocumentId: "retro", Title: "Retro"},
		&driveapi.File{Name: "Retro", Parents: []string{"meetings"}, ModifiedTime: "2025-03-01T10:00:00Z"})
	backend.AddDocument(&docsapi.Document{DocumentId: "planning", Title: "Planning"},
		&driveapi.File{Name: "Planning standup", Parents: []string{"y2025"}, ModifiedTime: "2025-03-05T10:00:00Z"})
}

type listedDocuments struct {
	Count     int               `json:"count"`
	Documents []*drive.FileInfo `json:"documents"`
}

func TestRegisterDriveTools(t *testing.T) {
	for _, readOnly := range []bool{true, false} {
		sc, _ := newServerContext(t, server.WithReadOnly(readOnly))
		s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

		require.NoError(t, RegisterDriveTools(s, sc))

		tools := s.ListTools()
		assert.Contains(t, tools, "drive_list_documents")
		assert.Contains(t, tools, "drive_list_files")
		assert.Contains(t, tools, "drive_get_files")
		_, hasMove := tools["drive_move_file"]
		assert.Equal(t, !readOnly, hasMove)
	}
}

func TestHandleListDocuments(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantIDs []string
	}{
		{
			name:    "folder only",
			args:    map[string]interface{}{"folderId": "meetings"},
			wantIDs: []string{"standup", "retro"},
		},
		{
			name:    "recursive newest first",
			args:    map[string]interface{}{"folderId": "https://drive.google.com/drive/folders/meetings", "recursive": true},
			wantIDs: []string{"planning", "standup", "retro"},
		},
		{
			name:    "name pattern",
			args:    map[string]interface{}{"folderId": "meetings", "recursive": true, "namePattern": "STANDUP"},
			wantIDs: []string{"planning", "standup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, backend := newServerContext(t)
			seedFolders(backend)

			result, err := handleListDocuments(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)
			require.False(t, result.IsError, resultText(t, result))

			var out listedDocuments
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
			assert.Equal(t, len(tt.wantIDs), out.Count)

			ids := make([]string, 0, len(out.Documents))
			for _, doc := range out.Documents {
				ids = append(ids, doc.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHandleListDocuments_FolderPath(t *testing.T) {
	sc, backend := newServerContext(t)
	seedFolders(backend)

	result, err := handleListDocuments(context.Background(), callRequest(map[string]interface{}{
		"folderId":  "meetings",
		"recursive": true,
	}), sc)
	require.NoError(t, err)

	var out listedDocuments
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.NotEmpty(t, out.Documents)
	assert.Equal(t, "planning", out.Documents[0].ID)
	assert.Equal(t, "2025", out.Documents[0].FolderPath)
}

func TestHandleListDocuments_Errors(t *testing.T) {
	sc, backend := newServerContext(t)

	result, err := handleListDocuments(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	backend.Fail(googletest.FailList)
	result, err = handleListDocuments(context.Background(), callRequest(map[string]interface{}{"folderId": "meetings"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to list documents")
}

func TestHandleGetFiles(t *testing.T) {
	sc, backend := newServerContext(t)
	seedFolders(backend)

	result, err := handleGetFiles(context.Background(), callRequest(map[string]interface{}{
		"fileIds": []interface{}{"standup", "nope"},
	}), sc)
	require.NoError(t, err)

	var out batch.BatchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, 1, out.Successful)
	assert.Equal(t, 1, out.Failed)

	var file drive.FileInfo
	require.NoError(t, json.Unmarshal([]byte(out.Results[0].Result), &file))
	assert.Equal(t, "Daily Standup", file.Name)
}

func TestHandleMoveFile(t *testing.T) {
	t.Run("into folder", func(t *testing.T) {
		sc, backend := newServerContext(t)
		seedFolders(backend)

		result, err := handleMoveFile(context.Background(), callRequest(map[string]interface{}{
			"fileId":   "planning",
			"folderId": "meetings",
		}), sc)
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, []string{"meetings"}, backend.Parents("planning"))
	})

	t.Run("add and remove parents", func(t *testing.T) {
		sc, backend := newServerContext(t)
		seedFolders(backend)

		result, err := handleMoveFile(context.Background(), callRequest(map[string]interface{}{
			"fileId":        "retro",
			"addParents":    "y2025, archive",
			"removeParents": "meetings",
		}), sc)
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, []string{"y2025", "archive"}, backend.Parents("retro"))
	})

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{name: "missing file", args: map[string]interface{}{"folderId": "x"}, want: "fileId is required"},
		{name: "nothing to do", args: map[string]interface{}{"fileId": "retro"}, want: "At least one of"},
		{name: "conflicting", args: map[string]interface{}{"fileId": "retro", "folderId": "x", "addParents": "y"}, want: "cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, _ := newServerContext(t)
			result, err := handleMoveFile(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestParseCommaList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single value", input: "folder1", expected: []string{"folder1"}},
		{name: "multiple values", input: "folder1,folder2", expected: []string{"folder1", "folder2"}},
		{name: "values with spaces", input: "a, b , c", expected: []string{"a", "b", "c"}},
		{name: "empty string", input: "", expected: nil},
		{name: "only commas", input: " , ,", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCommaList(tt.input))
		})
	}
}
