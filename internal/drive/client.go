package drive

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/qwilo/internal/google"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

const (
	fileFields = "id, name, mimeType, createdTime, modifiedTime, webViewLink, parents, owners, trashed"

	// listPageSize is the page size used when walking folders
	listPageSize = 100
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
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

// WithMetrics records Drive API calls on m
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClientWithServiceOptions creates a Drive client from raw API options,
// e.g. option.WithHTTPClient or option.WithEndpoint.
func NewClientWithServiceOptions(ctx context.Context, account string, serviceOpts []option.ClientOption, opts ...Option) (*Client, error) {
	service, err := drive.NewService(ctx, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	c := &Client{
		service: service,
		account: account,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientForAccountWithProvider creates a Drive client for account using tokens from provider
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider, opts ...Option) (*Client, error) {
	httpClient, err := google.HTTPClientForProvider(ctx, provider, account)
	if err != nil {
		return nil, err
	}
	return NewClientWithServiceOptions(ctx, account, []option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
}

// NewClientForAccount creates a Drive client for account from its token file.
// Returns an error if no valid token exists; use google.HasTokenForAccount to check first.
func NewClientForAccount(ctx context.Context, account string, opts ...Option) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider(), opts...)
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

func (c *Client) observe(ctx context.Context, operation, fileID string, fn func(context.Context) error) error {
	attrs := instrumentation.DocumentAttributes(c.account, fileID)
	return instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceDrive, operation, fn, attrs...)
}

// ListFiles lists one page of files. Trashed files are excluded unless
// options.IncludeTrashed is set. It returns the next page token, empty on the last page.
func (c *Client) ListFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, string, error) {
	if options == nil {
		options = &ListOptions{}
	}

	call := c.service.Files.List().
		Fields("nextPageToken, files(" + fileFields + ")").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	if q := buildListFilesQuery(options.Query, options.IncludeTrashed); q != "" {
		call = call.Q(q)
	}
	if options.MaxResults > 0 {
		call = call.PageSize(int64(options.MaxResults))
	}
	if options.OrderBy != "" {
		call = call.OrderBy(options.OrderBy)
	}
	if options.PageToken != "" {
		call = call.PageToken(options.PageToken)
	}

	var fileList *drive.FileList
	err := c.observe(ctx, instrumentation.OperationList, "", func(ctx context.Context) error {
		var err error
		fileList, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = newFileInfo(f)
	}

	return files, fileList.NextPageToken, nil
}

// listAll follows page tokens until every match of query is collected
func (c *Client) listAll(ctx context.Context, query string) ([]*FileInfo, error) {
	var all []*FileInfo
	options := &ListOptions{Query: query, MaxResults: listPageSize, OrderBy: "modifiedTime desc"}
	for {
		files, next, err := c.ListFiles(ctx, options)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
		if next == "" {
			return all, nil
		}
		options.PageToken = next
	}
}

// ListDocuments lists the Google Docs in a folder, newest modification first.
//
// With Recursive set, sub-folders are scanned breadth-first and each document
// records the folder path it was found under. A failure listing the root
// folder is returned; failures in sub-folders are logged and skipped.
func (c *Client) ListDocuments(ctx context.Context, opts ListDocumentsOptions) ([]*FileInfo, error) {
	rootID := ExtractFolderID(opts.FolderID)
	if rootID == "" {
		return nil, fmt.Errorf("folderID is required")
	}

	var modifiedAfter time.Time
	if opts.ModifiedAfter != "" {
		t, err := ParseModifiedAfter(opts.ModifiedAfter)
		if err != nil {
			c.logger.Warn("ignoring invalid modified-after date", logging.Err(err))
		} else {
			modifiedAfter = t
		}
	}
	pattern := strings.ToLower(opts.NamePattern)

	type folder struct {
		id   string
		path string
	}
	queue := []folder{{id: rootID}}
	visited := map[string]bool{rootID: true}

	var documents []*FileInfo
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		found, err := c.listAll(ctx, folderDocumentsQuery(current.id, modifiedAfter))
		if err != nil {
			if current.id == rootID {
				return nil, fmt.Errorf("failed to list documents in folder %s: %w", rootID, err)
			}
			c.logger.Warn("skipping folder", logging.FolderID(current.id), logging.Err(err))
			continue
		}
		for _, doc := range found {
			if pattern != "" && !strings.Contains(strings.ToLower(doc.Name), pattern) {
				continue
			}
			doc.FolderPath = current.path
			documents = append(documents, doc)
		}

		if !opts.Recursive {
			break
		}

		subfolders, err := c.listAll(ctx, subfoldersQuery(current.id))
		if err != nil {
			c.logger.Warn("failed to list sub-folders", logging.FolderID(current.id), logging.Err(err))
			continue
		}
		for _, sub := range subfolders {
			if visited[sub.ID] {
				continue
			}
			visited[sub.ID] = true
			queue = append(queue, folder{id: sub.ID, path: path.Join(current.path, sub.Name)})
		}
	}

	slices.SortStableFunc(documents, func(a, b *FileInfo) int {
		return b.ModifiedTime.Compare(a.ModifiedTime)
	})

	c.logger.Debug("listed documents",
		logging.FolderID(rootID),
		"count", len(documents),
		"recursive", opts.Recursive)

	return documents, nil
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var file *drive.File
	err := c.observe(ctx, instrumentation.OperationGet, fileID, func(ctx context.Context) error {
		var err error
		file, err = c.service.Files.Get(fileID).
			Context(ctx).
			Fields(fileFields).
			SupportsAllDrives(true).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return newFileInfo(file), nil
}

// MoveFile moves or renames a file
func (c *Client) MoveFile(ctx context.Context, fileID string, options *MoveOptions) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if options == nil {
		return nil, fmt.Errorf("move options are required")
	}

	update := &drive.File{Name: options.NewName}

	call := c.service.Files.Update(fileID, update).
		Fields(fileFields).
		SupportsAllDrives(true)
	if len(options.AddParents) > 0 {
		call = call.AddParents(strings.Join(options.AddParents, ","))
	}
	if len(options.RemoveParents) > 0 {
		call = call.RemoveParents(strings.Join(options.RemoveParents, ","))
	}

	var file *drive.File
	err := c.observe(ctx, instrumentation.OperationMove, fileID, func(ctx context.Context) error {
		var err error
		file, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move file %s: %w", fileID, err)
	}

	return newFileInfo(file), nil
}

// RelocateFile makes folderID the only parent of fileID.
//
// The current parents are read and then replaced in a second call without a
// precondition, so a parent change made by someone else between the two calls
// is overwritten.
func (c *Client) RelocateFile(ctx context.Context, fileID, folderID string) (*FileInfo, error) {
	folderID = ExtractFolderID(folderID)
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}

	current, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	options := &MoveOptions{}
	for _, parent := range current.Parents {
		if parent != folderID {
			options.RemoveParents = append(options.RemoveParents, parent)
		}
	}
	if !slices.Contains(current.Parents, folderID) {
		options.AddParents = []string{folderID}
	}
	if len(options.AddParents) == 0 && len(options.RemoveParents) == 0 {
		return current, nil
	}

	return c.MoveFile(ctx, fileID, options)
}

// newFileInfo copies the fields qwilo reads from a Drive file. Unparseable
// timestamps are left zero.
func newFileInfo(f *drive.File) *FileInfo {
	info := &FileInfo{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		WebViewLink:  f.WebViewLink,
		Parents:      f.Parents,
		Trashed:      f.Trashed,
		CreatedTime:  parseRFC3339(f.CreatedTime),
		ModifiedTime: parseRFC3339(f.ModifiedTime),
	}
	for _, owner := range f.Owners {
		info.Owners = append(info.Owners, User{DisplayName: owner.DisplayName, EmailAddress: owner.EmailAddress})
	}
	return info
}

func parseRFC3339(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}
