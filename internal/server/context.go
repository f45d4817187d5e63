package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/api/option"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

// ErrShutdown is returned for client requests after Shutdown
var ErrShutdown = errors.New("server is shutting down")

// ServerContext holds the dependencies shared by MCP tool handlers
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	docsClients map[string]*docs.Client // Maps account name to Docs client

	tokenProvider  google.TokenProvider
	serviceOptions []option.ClientOption
	logger         logging.Logger
	metrics        *instrumentation.Metrics
	analyzer       analyzer.Analyzer

	policy         docs.TabSelectionPolicy
	outputFolderID string
	readOnly       bool

	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext
type Option func(*ServerContext)

// WithTokenProvider sets where account tokens come from; the default reads token files
func WithTokenProvider(provider google.TokenProvider) Option {
	return func(sc *ServerContext) {
		sc.tokenProvider = provider
	}
}

// WithServiceOptions makes every client use opts instead of account tokens
func WithServiceOptions(opts ...option.ClientOption) Option {
	return func(sc *ServerContext) {
		sc.serviceOptions = opts
	}
}

// WithLogger sets the logger handed to clients
func WithLogger(logger logging.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder handed to clients and tools
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = m
	}
}

// WithAnalyzer enables tools that generate analyses
func WithAnalyzer(a analyzer.Analyzer) Option {
	return func(sc *ServerContext) {
		sc.analyzer = a
	}
}

// WithTabPolicy sets the policy used to pick the tab of multi-tab documents
func WithTabPolicy(policy docs.TabSelectionPolicy) Option {
	return func(sc *ServerContext) {
		sc.policy = policy
	}
}

// WithOutputFolder sets the folder generated documents are moved into by default
func WithOutputFolder(folderID string) Option {
	return func(sc *ServerContext) {
		sc.outputFolderID = folderID
	}
}

// WithReadOnly disables tools that create documents
func WithReadOnly(readOnly bool) Option {
	return func(sc *ServerContext) {
		sc.readOnly = readOnly
	}
}

// NewServerContext creates a new server context. Clients are created lazily
// per account on first use.
func NewServerContext(ctx context.Context, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		docsClients:   make(map[string]*docs.Client),
		tokenProvider: google.NewFileTokenProvider(),
		logger:        logging.Discard(),
		policy:        docs.DefaultTabSelectionPolicy(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// DocsClientForAccount returns the Docs client for account, creating and
// caching it on first use
func (sc *ServerContext) DocsClientForAccount(account string) (*docs.Client, error) {
	if account == "" {
		account = google.DefaultAccount
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, ErrShutdown
	}
	if client, ok := sc.docsClients[account]; ok {
		return client, nil
	}

	clientOpts := []docs.Option{docs.WithLogger(sc.logger), docs.WithMetrics(sc.metrics)}

	var (
		client *docs.Client
		err    error
	)
	if sc.serviceOptions != nil {
		client, err = docs.NewClientWithServiceOptions(sc.ctx, account, sc.serviceOptions, clientOpts...)
	} else {
		if !sc.tokenProvider.HasTokenForAccount(account) {
			return nil, fmt.Errorf("%w: %s", google.ErrNoToken, google.GetAuthenticationErrorMessage(account))
		}
		client, err = docs.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider, clientOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs client for account %s: %w", account, err)
	}

	sc.docsClients[account] = client
	return client, nil
}

// SetDocsClientForAccount sets the Docs client for a specific account
func (sc *ServerContext) SetDocsClientForAccount(account string, client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[account] = client
}

// Accounts returns the accounts with a cached client
func (sc *ServerContext) Accounts() []string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	accounts := make([]string, 0, len(sc.docsClients))
	for account := range sc.docsClients {
		accounts = append(accounts, account)
	}
	return accounts
}

// Logger returns the logger
func (sc *ServerContext) Logger() logging.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, which may be nil
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Analyzer returns the analyzer or nil when generation is not configured
func (sc *ServerContext) Analyzer() analyzer.Analyzer {
	return sc.analyzer
}

// TabPolicy returns the tab selection policy
func (sc *ServerContext) TabPolicy() docs.TabSelectionPolicy {
	return sc.policy
}

// OutputFolderID returns the default folder for generated documents
func (sc *ServerContext) OutputFolderID() string {
	return sc.outputFolderID
}

// ReadOnly reports whether document creation is disabled
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.docsClients = make(map[string]*docs.Client)
	sc.cancel()
	return nil
}
