package cmd

import (
	"encoding/json"
	"fmt"
	"path"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/qwilo/internal/config"
	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/gmail"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [folder-id-or-url]",
		Short: "List meeting notes emails or the Google Docs in a Drive folder",
		Long: `List the transcripts qwilo can analyze.

With the gmail source, meeting notes emails are listed with the number of
Google Docs each links to. --label (env GMAIL_LABEL) restricts the search to a
Gmail label.

With the drive source, the Google Docs of a folder are listed, newest first.
The folder defaults to DRIVE_FOLDER_ID. Use --recursive to include sub-folders
and --name-pattern to filter by name.

--source (env SOURCE_MODE) picks the source. Without it, a folder argument or
DRIVE_FOLDER_ID selects drive and gmail is used otherwise. --start-date
(MMDDYYYY) skips older emails or documents.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, args, asJSON)
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the documents as JSON")

	return cmd
}

// addSourceFlags adds the flags selecting notes emails or the documents of a Drive folder
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Transcript source: gmail or drive (env SOURCE_MODE)")
	cmd.Flags().String("label", "", "Only notes emails with this Gmail label (env GMAIL_LABEL)")
	cmd.Flags().String("folder", "", "Drive folder ID or URL to read documents from (env DRIVE_FOLDER_ID)")
	cmd.Flags().Bool("recursive", false, "Include documents in sub-folders (env DRIVE_RECURSIVE)")
	cmd.Flags().String("name-pattern", "", "Only documents whose name contains this text (env NAME_PATTERN)")
	cmd.Flags().String("start-date", "", "Only emails or documents from this MMDDYYYY date on (env START_DATE)")
}

// listOptions returns the configured folder listing, with folder overriding the folder ID
func (a *app) listOptions(folder string) (drive.ListDocumentsOptions, error) {
	opts := a.cfg.ListOptions()
	if folder != "" {
		opts.FolderID = folder
	}
	if opts.FolderID == "" {
		return opts, fmt.Errorf("no folder given: pass one or set DRIVE_FOLDER_ID")
	}
	return opts, nil
}

func (a *app) runList(cmd *cobra.Command, args []string, asJSON bool) error {
	var folder string
	if len(args) > 0 {
		folder = args[0]
	}
	if a.cfg.Source(folder) == config.SourceGmail {
		return a.runListEmails(cmd, asJSON)
	}

	opts, err := a.listOptions(folder)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := a.docsClient(ctx)
	if err != nil {
		return err
	}

	documents, err := client.Drive().ListDocuments(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if documents == nil {
			documents = []*drive.FileInfo{}
		}
		data, err := json.MarshalIndent(documents, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode documents: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(documents) == 0 {
		fmt.Fprintln(out, "No documents found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODIFIED\tNAME")
	for _, doc := range documents {
		modified := "-"
		if !doc.ModifiedTime.IsZero() {
			modified = doc.ModifiedTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.ID, modified, path.Join(doc.FolderPath, doc.Name))
	}
	return w.Flush()
}

func (a *app) runListEmails(cmd *cobra.Command, asJSON bool) error {
	messages, err := a.notesEmails(cmd, "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if messages == nil {
			messages = []*gmail.Message{}
		}
		data, err := json.MarshalIndent(messages, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode emails: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(messages) == 0 {
		fmt.Fprintln(out, "No notes emails found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tDOCS\tSUBJECT")
	for _, msg := range messages {
		date := "-"
		if !msg.Date.IsZero() {
			date = msg.Date.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", msg.ID, date, len(msg.DocumentIDs()), msg.Subject)
	}
	return w.Flush()
}
