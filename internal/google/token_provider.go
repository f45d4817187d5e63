package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens for Google APIs per account.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider provides tokens from per-account token files
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount returns a valid token for account, refreshing it if expired
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from file: %w", err)
	}

	return token, nil
}

// HasTokenForAccount checks if a token file exists for the specified account
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}

// StaticTokenProvider serves a fixed token for every account
type StaticTokenProvider struct {
	Token *oauth2.Token
}

// GetTokenForAccount returns the fixed token
func (p StaticTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	if p.Token == nil {
		return nil, ErrNoToken
	}
	return p.Token, nil
}

// HasTokenForAccount reports whether a token is set
func (p StaticTokenProvider) HasTokenForAccount(account string) bool {
	return p.Token != nil
}

// HTTPClientForProvider builds an authorized HTTP client for account from provider
func HTTPClientForProvider(ctx context.Context, provider TokenProvider, account string) (*http.Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	return NewHTTPClient(ctx, GetOAuthConfig().TokenSource(ctx, token)), nil
}
