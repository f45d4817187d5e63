package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/tools/docs_tools"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		title     string
		saveLocal bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Create a Google Doc from markdown-like content",
		Long: `Create a Google Doc from markdown-like content read from a file or stdin.

'# ' and '## ' lines become headings, **text** becomes bold, '---' lines become
rules, '> ' lines are indented and '•' bullets are kept. The document is moved
into --output-folder (env OUTPUT_FOLDER_ID) when one is set.

With --save-local the content is written to analysis_<title>_<time>.md when the
document cannot be created. --dry-run prints the edit operations instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd, args)
			if err != nil {
				return err
			}
			if dryRun {
				return printPreview(cmd.OutOrStdout(), content)
			}
			return a.runGenerate(cmd, title, content, saveLocal)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Document title (default: today's date as MMDDYYYY)")
	cmd.Flags().String("output-folder", "", "Drive folder ID or URL for the new document (env OUTPUT_FOLDER_ID)")
	cmd.Flags().BoolVar(&saveLocal, "save-local", false, "Save the content to a local markdown file if the document cannot be created")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the flattened text, spans and edit operations without creating a document")

	return cmd
}

func readContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

func printPreview(w io.Writer, content string) error {
	layout := docs.ParseMarkdown(content)
	data, err := json.MarshalIndent(docs_tools.Preview{
		Text:       layout.Text,
		Spans:      layout.Spans,
		Operations: docs.BuildOperations(layout),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (a *app) runGenerate(cmd *cobra.Command, title, content string, saveLocal bool) error {
	now := time.Now()
	if title == "" {
		title = analyzer.DocumentTitle(now)
	}

	created, err := a.writeDocument(cmd, title, content)
	if err != nil {
		if !saveLocal {
			return err
		}
		return a.saveFallback(cmd, err, title, content, now)
	}
	a.reportCreated(cmd, created)
	return nil
}

// writeDocument creates a document in the configured output folder
func (a *app) writeDocument(cmd *cobra.Command, title, content string) (*docs.CreatedDocument, error) {
	ctx := cmd.Context()
	client, err := a.docsClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.CreateDocument(ctx, title, content, a.cfg.OutputFolderID)
}

func (a *app) reportCreated(cmd *cobra.Command, created *docs.CreatedDocument) {
	successStyle.Fprintf(cmd.OutOrStdout(), "Created %q: %s\n", created.Title, created.URL)
	if created.RelocationError != nil {
		warningStyle.Fprintf(cmd.ErrOrStderr(), "Document left in its original folder: %v\n", created.RelocationError)
	}
}

// saveFallback writes content to a local markdown file after writeErr. It
// reports writeErr as a warning and only fails when the file cannot be written.
func (a *app) saveFallback(cmd *cobra.Command, writeErr error, topic, content string, now time.Time) error {
	warningStyle.Fprintf(cmd.ErrOrStderr(), "Could not create Google Doc: %v\n", writeErr)

	path := analyzer.LocalFilename(topic, now)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w (after %w)", path, err, writeErr)
	}
	successStyle.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", path)
	return nil
}
