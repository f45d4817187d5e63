package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/qwilo/internal/config"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and the MCP server
func SetVersion(v string) {
	version = v
}

// newRootCmd builds the command tree around a
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qwilo",
		Short: "Turns meeting transcripts in Google Docs into formatted analysis documents",
		Long: `qwilo reads meeting transcripts stored as Google Docs, picking the Transcript
or Notes tab of multi-tab documents, and writes markdown-like content back to
Google Docs with headings and bold text applied.

It can run as:
  - A command-line tool (extract, list, generate, analyze)
  - An MCP (Model Context Protocol) server for AI assistants (serve)

Settings come from flags, environment variables (OUTPUT_FOLDER_ID,
DRIVE_FOLDER_ID, GEMINI_API_KEY, ...) and an optional qwilo.yaml file.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "qwilo version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./qwilo.yaml, then the user config dir)")
	flags.String("account", "", "Google account to use (default: 'default', env GOOGLE_ACCOUNT)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (env LOG_LEVEL)")
	flags.String("log-format", "", "Log format: text or json (env LOG_FORMAT)")

	rootCmd.AddCommand(newAuthCmd(a))
	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newToolDocsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	if err := newRootCmd(newApp(config.New())).Execute(); err != nil {
		os.Exit(1)
	}
}
