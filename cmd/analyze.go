package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/config"
	"github.com/teemow/qwilo/internal/docs"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		email     string
		separate  bool
		saveLocal bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [document-id-or-url]...",
		Short: "Analyze meeting transcripts with Gemini and write the analysis to Google Docs",
		Long: `Analyze meeting transcripts with a Gemini model and write the result to Google Docs.

Transcripts are the given documents. Without documents they come from the
source picked as for list: the Google Docs linked from meeting notes emails
(gmail), or every document of --folder (drive). --email analyzes only the
notes emails whose subject contains the given text and selects the gmail
source unless SOURCE_MODE says otherwise.

By default one combined report is written; --separate writes one document per
transcript. Documents are titled with today's date as MMDDYYYY and moved into
--output-folder.

The API key is read from GEMINI_API_KEY or GOOGLE_API_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, email, separate, saveLocal)
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().StringVar(&email, "email", "", "Analyze the notes emails whose subject contains this text")
	cmd.Flags().String("output-folder", "", "Drive folder ID or URL for the reports (env OUTPUT_FOLDER_ID)")
	cmd.Flags().Bool("prefer-transcript", true, "Prefer the Transcript tab over the Notes tab (env PREFER_TRANSCRIPT)")
	cmd.Flags().String("model", "", "Gemini model (env GEMINI_MODEL)")
	cmd.Flags().String("content-focus", "", "What the analysis should focus on (env CONTENT_FOCUS)")
	cmd.Flags().BoolVar(&separate, "separate", false, "Write one document per transcript")
	cmd.Flags().BoolVar(&saveLocal, "save-local", false, "Save reports to local markdown files if a document cannot be created")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, ids []string, email string, separate, saveLocal bool) error {
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()

	model, err := a.newAnalyzer(ctx)
	if err != nil {
		return err
	}
	client, err := a.docsClient(ctx)
	if err != nil {
		return err
	}

	transcripts, failures, err := a.collectTranscripts(cmd, client, ids, email)
	if err != nil {
		return err
	}
	for _, f := range failures {
		errorStyle.Fprintf(errOut, "Skipping %s: %v\n", f.ID, f.Err)
	}
	if len(transcripts) == 0 {
		return fmt.Errorf("no transcripts to analyze")
	}

	fmt.Fprintf(errOut, "Analyzing %d transcript(s)...\n", len(transcripts))
	results := analyzer.AnalyzeAll(ctx, model, transcripts)

	var analyzed []analyzer.Result
	for _, r := range results {
		if r.Failed() {
			errorStyle.Fprintf(errOut, "Analysis of %q failed: %v\n", r.Topic, r.Err)
			continue
		}
		analyzed = append(analyzed, r)
	}

	now := time.Now()
	title := analyzer.DocumentTitle(now)

	type report struct {
		topic   string
		content string
	}
	var reports []report
	if separate {
		for _, r := range analyzed {
			reports = append(reports, report{topic: r.Topic, content: analyzer.ComposeReport(r)})
		}
	} else {
		content, n, err := analyzer.ComposeCombinedReport(results, now)
		if err != nil {
			return err
		}
		a.logger.Debug("composed combined report", "transcripts", n)
		reports = append(reports, report{content: content})
	}
	if len(reports) == 0 {
		return analyzer.ErrNoResults
	}

	var writeFailures int
	for _, r := range reports {
		created, err := a.writeDocument(cmd, title, r.content)
		if err != nil {
			if saveLocal {
				err = a.saveFallback(cmd, err, r.topic, r.content, now)
			}
			if err != nil {
				errorStyle.Fprintf(errOut, "%v\n", err)
				writeFailures++
			}
			continue
		}
		a.reportCreated(cmd, created)
	}

	if writeFailures > 0 {
		return fmt.Errorf("%d of %d reports could not be saved", writeFailures, len(reports))
	}
	return nil
}

// collectTranscripts loads the given documents, or the transcripts of the
// configured source when there are none
func (a *app) collectTranscripts(cmd *cobra.Command, client *docs.Client, ids []string, email string) ([]analyzer.Transcript, []analyzer.Failure, error) {
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()

	if len(ids) > 0 {
		if email != "" {
			warningStyle.Fprintln(errOut, "Ignoring --email because documents were given")
		}
		transcripts, failures := analyzer.FetchTranscripts(ctx, client, ids, a.cfg.TabPolicy())
		return transcripts, failures, nil
	}

	source := a.cfg.Source("")
	if email != "" && a.cfg.SourceMode == "" {
		source = config.SourceGmail
	}

	if source == config.SourceDrive {
		if email != "" || a.cfg.GmailLabel != "" {
			warningStyle.Fprintln(errOut, "--email and --label only apply to the gmail source and are ignored")
		}
		opts, err := a.listOptions("")
		if err != nil {
			return nil, nil, err
		}
		return analyzer.FetchFolderTranscripts(ctx, client, opts)
	}

	messages, err := a.notesEmails(cmd, email)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case len(messages) == 0 && email != "":
		return nil, nil, fmt.Errorf("no notes emails found matching %q", email)
	case len(messages) == 0:
		return nil, nil, fmt.Errorf("no notes emails found")
	case email != "" && len(messages) > 1:
		warningStyle.Fprintf(errOut, "Found %d emails matching %q, analyzing all of them\n", len(messages), email)
	}

	transcripts, failures := analyzer.FetchEmailTranscripts(ctx, client, messages, a.cfg.TabPolicy())
	return transcripts, failures, nil
}
