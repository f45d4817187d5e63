package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

const me = "me"

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
	logger  logging.Logger
	metrics *instrumentation.Metrics
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

// WithMetrics records Gmail API calls on m
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClientWithServiceOptions creates a Gmail client from raw API options,
// e.g. option.WithHTTPClient or option.WithEndpoint.
func NewClientWithServiceOptions(ctx context.Context, account string, serviceOpts []option.ClientOption, opts ...Option) (*Client, error) {
	svc, err := gmail.NewService(ctx, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	c := &Client{
		svc:     svc.Users,
		account: account,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientForAccountWithProvider creates a Gmail client for account using tokens from provider
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider, opts ...Option) (*Client, error) {
	httpClient, err := google.HTTPClientForProvider(ctx, provider, account)
	if err != nil {
		return nil, err
	}
	return NewClientWithServiceOptions(ctx, account, []option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
}

// NewClientForAccount creates a Gmail client for account from its token file
func NewClientForAccount(ctx context.Context, account string, opts ...Option) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider(), opts...)
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

func (c *Client) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	attrs := instrumentation.DocumentAttributes(c.account, "")
	return instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceGmail, operation, fn, attrs...)
}

// ListMessages returns the notes emails matching opts, newest first, with
// their bodies and links. Messages that cannot be fetched are logged and skipped.
func (c *Client) ListMessages(ctx context.Context, opts SearchOptions) ([]*Message, error) {
	q, err := BuildQuery(opts)
	if err != nil {
		return nil, err
	}

	ids, err := c.listMessageIDs(ctx, q, opts.maxResults())
	if err != nil {
		return nil, err
	}

	messages := make([]*Message, 0, len(ids))
	for _, id := range ids {
		msg, err := c.GetMessage(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("skipping message", "message_id", id, logging.Err(err))
			continue
		}
		messages = append(messages, msg)
	}
	c.logger.Debug("listed notes emails", "query", q, "count", len(messages))
	return messages, nil
}

// listMessageIDs pages through the search until maxResults IDs are collected
func (c *Client) listMessageIDs(ctx context.Context, q string, maxResults int) ([]string, error) {
	var (
		ids       []string
		pageToken string
	)
	for len(ids) < maxResults {
		pageSize := min(maxResults-len(ids), listPageSize)
		call := c.svc.Messages.List(me).Q(q).MaxResults(int64(pageSize))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var res *gmail.ListMessagesResponse
		err := c.observe(ctx, instrumentation.OperationList, func(ctx context.Context) error {
			var err error
			res, err = call.Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// GetMessage fetches one message in full format
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	var msg *gmail.Message
	err := c.observe(ctx, instrumentation.OperationGet, func(ctx context.Context) error {
		var err error
		msg, err = c.svc.Messages.Get(me, id).Format("full").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return newMessage(msg)
}
