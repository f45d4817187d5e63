package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/qwilo/internal/tools/batch"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		plain  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "extract <document-id-or-url>...",
		Short: "Print the plain text of Google Docs",
		Long: `Print the plain text of one or more Google Docs.

For documents with tabs the Transcript tab is used, else the Notes tab, else
the first tab. --prefer-transcript=false picks Notes over Transcript. A document
that cannot be read is reported and the others are still printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args, plain, asJSON)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Read the document body without tab content")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON batch result instead of the text")
	cmd.Flags().Bool("prefer-transcript", true, "Prefer the Transcript tab over the Notes tab (env PREFER_TRANSCRIPT)")

	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, ids []string, plain, asJSON bool) error {
	ctx := cmd.Context()
	client, err := a.docsClient(ctx)
	if err != nil {
		return err
	}
	policy := a.cfg.TabPolicy()

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

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	summary := batch.Summarize(results)
	if asJSON {
		fmt.Fprintln(out, batch.FormatResults(results))
	} else {
		for _, r := range results {
			if !r.OK() {
				errorStyle.Fprintf(errOut, "%s: %s\n", r.ID, r.Error)
				continue
			}
			if r.Note != "" {
				warningStyle.Fprintf(errOut, "%s: %s\n", r.ID, r.Note)
			}
			if len(results) > 1 {
				boldStyle.Fprintf(out, "==> %s <==\n", r.ID)
			}
			fmt.Fprint(out, r.Result)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents could not be read", summary.Failed, summary.Total)
	}
	return nil
}
