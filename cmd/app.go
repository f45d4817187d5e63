package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/config"
	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/gmail"
	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/logging"
)

var (
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	boldStyle    = color.New(color.Bold)
)

// flagKeys maps flag names to the config keys they override. A flag is bound
// only on the command that declares it.
var flagKeys = map[string]string{
	"account":           config.KeyAccount,
	"source":            config.KeySourceMode,
	"label":             config.KeyGmailLabel,
	"log-level":         config.KeyLogLevel,
	"log-format":        config.KeyLogFormat,
	"output-folder":     config.KeyOutputFolderID,
	"folder":            config.KeyDriveFolderID,
	"recursive":         config.KeyDriveRecursive,
	"start-date":        config.KeyStartDate,
	"name-pattern":      config.KeyNamePattern,
	"prefer-transcript": config.KeyPreferTranscript,
	"model":             config.KeyGeminiModel,
	"content-focus":     config.KeyContentFocus,
}

// app carries the state shared by all commands of one invocation
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger

	// newDocsClient, newGmailClient and newAnalyzer are replaced in tests
	newDocsClient  func(ctx context.Context, account string) (*docs.Client, error)
	newGmailClient func(ctx context.Context, account string) (*gmail.Client, error)
	newAnalyzer    func(ctx context.Context) (analyzer.Analyzer, error)
}

func newApp(v *viper.Viper) *app {
	a := &app{v: v, logger: slog.New(slog.DiscardHandler)}
	a.newDocsClient = a.docsClientFromToken
	a.newGmailClient = a.gmailClientFromToken
	a.newAnalyzer = a.geminiAnalyzer
	return a
}

// load binds the flags of cmd, reads the configuration and sets up logging
func (a *app) load(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		// Unset flags must not shadow the environment and config file.
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(a.v, configFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// loggerAdapter returns the logger in the form the clients take
func (a *app) loggerAdapter() logging.Logger {
	return logging.NewSlogAdapter(a.logger)
}

func (a *app) docsClientFromToken(ctx context.Context, account string) (*docs.Client, error) {
	if !google.HasTokenForAccount(account) {
		return nil, fmt.Errorf("%w: %s", google.ErrNoToken, google.GetAuthenticationErrorMessage(account))
	}
	return docs.NewClientForAccount(ctx, account, docs.WithLogger(a.loggerAdapter()))
}

func (a *app) gmailClientFromToken(ctx context.Context, account string) (*gmail.Client, error) {
	if !google.HasTokenForAccount(account) {
		return nil, fmt.Errorf("%w: %s", google.ErrNoToken, google.GetAuthenticationErrorMessage(account))
	}
	return gmail.NewClientForAccount(ctx, account, gmail.WithLogger(a.loggerAdapter()))
}

func (a *app) geminiAnalyzer(ctx context.Context) (analyzer.Analyzer, error) {
	gemini, err := analyzer.NewGemini(ctx, a.cfg.GeminiConfig(), analyzer.WithLogger(a.loggerAdapter()))
	if err != nil {
		return nil, err
	}
	return gemini, nil
}

// docsClient returns the client for the configured account
func (a *app) docsClient(ctx context.Context) (*docs.Client, error) {
	return a.newDocsClient(ctx, a.cfg.Account)
}

// notesEmails searches the configured account for notes emails, keeping
// those whose subject matches subject when it is set
func (a *app) notesEmails(cmd *cobra.Command, subject string) ([]*gmail.Message, error) {
	ctx := cmd.Context()
	client, err := a.newGmailClient(ctx, a.cfg.Account)
	if err != nil {
		return nil, err
	}

	if a.cfg.GmailLabel != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Filtering by label: %s\n", a.cfg.GmailLabel)
	}
	messages, err := client.ListMessages(ctx, a.cfg.SearchOptions())
	if err != nil {
		return nil, err
	}
	return gmail.FilterBySubject(messages, subject), nil
}
