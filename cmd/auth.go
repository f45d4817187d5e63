package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/qwilo/internal/google"
)

func newAuthCmd(a *app) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize qwilo to read and write Google Docs for an account",
		Long: `Print the Google authorization URL for the account, then exchange the
code shown after approval for a token stored under the user config directory.

Client credentials are read from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := a.cfg.Account
			out := cmd.OutOrStdout()

			if code == "" {
				fmt.Fprintf(out, "Visit this URL to authorize account %q:\n\n  %s\n\n", account, google.GetAuthURLForAccount(account))
				fmt.Fprint(out, "Enter the authorization code: ")

				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() {
					if err := scanner.Err(); err != nil {
						return fmt.Errorf("failed to read authorization code: %w", err)
					}
					return fmt.Errorf("no authorization code entered")
				}
				code = strings.TrimSpace(scanner.Text())
			}
			if code == "" {
				return fmt.Errorf("no authorization code entered")
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
				return err
			}
			successStyle.Fprintf(out, "Token saved for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code, skipping the interactive prompt")

	return cmd
}
