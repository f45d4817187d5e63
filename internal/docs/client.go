package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/qwilo/internal/drive"
	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

// Client wraps the Google Docs API service and the Drive client used to
// relocate generated documents
type Client struct {
	docsService *docs.Service
	drive       *drive.Client
	account     string // The account this client is associated with
	logger      logging.Logger
	metrics     *instrumentation.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger for diagnostics; the default discards them
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records API calls and translator counters on m
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClientWithServiceOptions creates a Docs client from raw API options
// shared by the Docs and Drive services.
func NewClientWithServiceOptions(ctx context.Context, account string, serviceOpts []option.ClientOption, opts ...Option) (*Client, error) {
	docsService, err := docs.NewService(ctx, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	c := &Client{
		docsService: docsService,
		account:     account,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.drive, err = drive.NewClientWithServiceOptions(ctx, account, serviceOpts,
		drive.WithLogger(c.logger),
		drive.WithMetrics(c.metrics))
	if err != nil {
		return nil, err
	}

	return c, nil
}

// NewClientForAccountWithProvider creates a Docs client for account using tokens from provider
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider, opts ...Option) (*Client, error) {
	httpClient, err := google.HTTPClientForProvider(ctx, provider, account)
	if err != nil {
		return nil, err
	}
	return NewClientWithServiceOptions(ctx, account, []option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
}

// NewClientForAccount creates a Docs client for account from its token file
func NewClientForAccount(ctx context.Context, account string, opts ...Option) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider(), opts...)
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// Drive returns the Drive client sharing this client's credentials
func (c *Client) Drive() *drive.Client {
	return c.drive
}

func (c *Client) observe(ctx context.Context, operation, documentID string, fn func(context.Context) error) error {
	attrs := instrumentation.DocumentAttributes(c.account, documentID)
	return instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceDocs, operation, fn, attrs...)
}

// GetDocument retrieves a document with the content of all its tabs
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	return c.getDocument(ctx, documentID, true)
}

func (c *Client) getDocument(ctx context.Context, documentID string, includeTabs bool) (*docs.Document, error) {
	documentID = ExtractDocumentID(documentID)
	if documentID == "" {
		return nil, ErrEmptyDocumentID
	}

	var doc *docs.Document
	err := c.observe(ctx, instrumentation.OperationGet, documentID, func(ctx context.Context) error {
		var err error
		doc, err = c.docsService.Documents.Get(documentID).
			IncludeTabsContent(includeTabs).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return doc, nil
}

// FetchDocumentText fetches a document and flattens the body chosen by policy
func (c *Client) FetchDocumentText(ctx context.Context, documentID string, policy TabSelectionPolicy) (string, TabSelection, error) {
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return "", TabSelection{}, err
	}

	text, selection, err := DocumentText(doc, policy)
	if err != nil {
		return "", selection, fmt.Errorf("failed to extract document %s: %w", doc.DocumentId, err)
	}

	if selection.Note != "" {
		c.logger.Info(selection.Note, logging.DocumentID(doc.DocumentId))
	}
	c.logger.Debug("extracted document text",
		logging.DocumentID(doc.DocumentId),
		logging.Tab(selection.Title),
		"reason", string(selection.Reason),
		"length", len(text))
	c.metrics.RecordDocumentExtracted(ctx, instrumentation.SourceTabs)

	return text, selection, nil
}

// ExtractDocumentText is FetchDocumentText for callers that only want text.
// Any failure is logged and yields "", meaning nothing was extracted.
func (c *Client) ExtractDocumentText(ctx context.Context, documentID string, policy TabSelectionPolicy) string {
	text, _, err := c.FetchDocumentText(ctx, documentID, policy)
	if err != nil {
		c.logger.Warn("document extraction failed", logging.DocumentID(documentID), logging.Err(err))
		return ""
	}
	return text
}

// FetchPlainDocumentText fetches a document without tab content and
// flattens its top-level body
func (c *Client) FetchPlainDocumentText(ctx context.Context, documentID string) (string, error) {
	doc, err := c.getDocument(ctx, documentID, false)
	if err != nil {
		return "", err
	}
	if doc.Body == nil {
		return "", fmt.Errorf("failed to extract document %s: %w", doc.DocumentId, ErrNoContent)
	}

	c.metrics.RecordDocumentExtracted(ctx, instrumentation.SourcePlain)
	return ExtractBody(doc.Body), nil
}

// MoveDocument makes folderID the only parent folder of the document
func (c *Client) MoveDocument(ctx context.Context, documentID, folderID string) error {
	documentID = ExtractDocumentID(documentID)
	if documentID == "" {
		return ErrEmptyDocumentID
	}
	if _, err := c.drive.RelocateFile(ctx, documentID, folderID); err != nil {
		return fmt.Errorf("failed to move document %s to folder %s: %w", documentID, folderID, err)
	}
	return nil
}

// IsNotFound reports whether err comes from a 404 answer of the API
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
