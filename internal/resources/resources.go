package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/server"
)

const (
	// SettingsURI is the resource describing the running server
	SettingsURI = "qwilo://server/settings"

	// DocumentURIPrefix addresses the selected text of a document,
	// optionally followed by ?account=<name>
	DocumentURIPrefix = "gdocs://documents/"
	documentTemplate  = DocumentURIPrefix + "{documentId}{?account}"
)

// RegisterResources registers the qwilo resources with the MCP server
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	settingsResource := mcp.NewResource(
		SettingsURI,
		"Server Settings",
		mcp.WithResourceDescription("Mode, tab selection and output folder the qwilo server runs with"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSettings(ctx, request, sc)
	})

	documentResource := mcp.NewResourceTemplate(
		documentTemplate,
		"Document Text",
		mcp.WithTemplateDescription("Plain text of a Google Doc; multi-tab documents yield the Transcript tab, else the Notes tab, else the first tab"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
	s.AddResourceTemplate(documentResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleDocument(ctx, request, sc)
	})

	return nil
}

// Settings is the body of the settings resource
type Settings struct {
	ReadOnly         bool     `json:"readOnly"`
	OutputFolderID   string   `json:"outputFolderId,omitempty"`
	PreferredTab     string   `json:"preferredTab"`
	FallbackTab      string   `json:"fallbackTab"`
	AnalyzerEnabled  bool     `json:"analyzerEnabled"`
	Accounts         []string `json:"accounts"`
	DocumentTemplate string   `json:"documentTemplate"`
}

func handleSettings(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	policy := sc.TabPolicy()
	preferred, fallback := policy.PreferredName, policy.FallbackName
	if !policy.PreferTranscript {
		preferred, fallback = fallback, preferred
	}

	accounts := sc.Accounts()
	slices.Sort(accounts)

	jsonData, err := json.MarshalIndent(Settings{
		ReadOnly:         sc.ReadOnly(),
		OutputFolderID:   sc.OutputFolderID(),
		PreferredTab:     preferred,
		FallbackTab:      fallback,
		AnalyzerEnabled:  sc.Analyzer() != nil,
		Accounts:         accounts,
		DocumentTemplate: documentTemplate,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func handleDocument(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	documentID, account, err := ParseDocumentURI(request.Params.URI)
	if err != nil {
		return nil, err
	}

	client, err := sc.DocsClientForAccount(account)
	if err != nil {
		return nil, err
	}
	text, _, err := client.FetchDocumentText(ctx, documentID, sc.TabPolicy())
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", documentID, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// ParseDocumentURI returns the document ID and account of a document
// resource URI. The account defaults to the default account.
func ParseDocumentURI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, DocumentURIPrefix)
	if !ok {
		return "", "", fmt.Errorf("not a document resource: %s", uri)
	}
	path, rawQuery, _ := strings.Cut(rest, "?")

	documentID, err := url.PathUnescape(path)
	if err != nil {
		return "", "", fmt.Errorf("invalid document resource %s: %w", uri, err)
	}
	documentID = docs.ExtractDocumentID(documentID)
	if documentID == "" {
		return "", "", docs.ErrEmptyDocumentID
	}

	account := google.DefaultAccount
	if rawQuery != "" {
		query, err := url.ParseQuery(rawQuery)
		if err != nil {
			return "", "", fmt.Errorf("invalid document resource %s: %w", uri, err)
		}
		if a := query.Get("account"); a != "" {
			account = a
		}
	}
	return documentID, account, nil
}
