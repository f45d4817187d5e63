package cmd

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/server"
)

func newToolDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
The registered tools are introspected, so the documentation always matches the
tool definitions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := toolsMarkdown()
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// docsAnalyzer lets every tool register without a Gemini key
type docsAnalyzer struct{}

func (docsAnalyzer) Analyze(context.Context, analyzer.Transcript) (string, error) {
	return "", fmt.Errorf("not available while generating documentation")
}

// toolsMarkdown registers every tool, write tools included, and renders them
func toolsMarkdown() (string, error) {
	sc := server.NewServerContext(context.Background(),
		server.WithReadOnly(false),
		server.WithAnalyzer(docsAnalyzer{}),
	)
	defer func() {
		_ = sc.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("qwilo", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := registerAllTools(mcpSrv, sc); err != nil {
		return "", err
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}
	return generateToolsMarkdown(tools), nil
}

// toolCategories is the order categories appear in
var toolCategories = []string{"Google Docs Tools", "Google Drive Tools", "Other"}

const toolDocsPreamble = `# MCP Tools Reference

This document lists the tools available when running qwilo as an MCP server.

**Note:** This documentation is automatically generated from the tool definitions.

`

const toolDocsModes = "## Safety Mode\n\n" +
	"Tools that create documents or move files are only registered when the server runs with `--yolo`. " +
	"`docs_analyze_documents` additionally needs a Gemini API key.\n\n" +
	"## Multi-Account Support\n\n" +
	"Every tool takes an optional `account` parameter naming the Google account to use. " +
	"Without it the `default` account is used.\n\n"

func generateToolsMarkdown(tools []mcp.Tool) string {
	byCategory := groupToolsByCategory(tools)

	var sb strings.Builder
	sb.WriteString(toolDocsPreamble)

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range toolCategories {
		if len(byCategory[category]) > 0 {
			fmt.Fprintf(&sb, "- [%s](#%s)\n", category, strings.ToLower(strings.ReplaceAll(category, " ", "-")))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(toolDocsModes)

	for _, category := range toolCategories {
		categoryTools := byCategory[category]
		if len(categoryTools) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// groupToolsByCategory buckets tools by name prefix, each bucket sorted by name
func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := categoryFromToolName(tool.Name)
		byCategory[category] = append(byCategory[category], tool)
	}
	for _, categoryTools := range byCategory {
		slices.SortFunc(categoryTools, func(a, b mcp.Tool) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	return byCategory
}

func categoryFromToolName(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	switch prefix {
	case "docs":
		return toolCategories[0]
	case "drive":
		return toolCategories[1]
	default:
		return toolCategories[2]
	}
}

// generateToolMarkdown renders one tool and its arguments, sorted by name
func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return sb.String()
	}

	sb.WriteString("**Arguments:**\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}
		typ, ok := prop["type"].(string)
		if !ok {
			typ = "any"
		}
		description, _ := prop["description"].(string)
		fmt.Fprintf(&sb, "- `%s` (%s, %s): %s\n", name, typ, presence, description)
	}
	sb.WriteString("\n")

	return sb.String()
}
