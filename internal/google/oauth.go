package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAccount is the account used when none is given
const DefaultAccount = "default"

// ErrNoToken is returned when no token file exists for an account
var ErrNoToken = errors.New("no Google OAuth token found")

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", account)
	}
	return nil
}

// tokenDir returns the directory holding per-account token files.
// QWILO_TOKEN_DIR overrides the user cache directory.
func tokenDir() string {
	if dir := os.Getenv("QWILO_TOKEN_DIR"); dir != "" {
		return dir
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		cache = os.TempDir()
	}
	return filepath.Join(cache, "qwilo")
}

func getTokenFilePath(account string) string {
	return filepath.Join(tokenDir(), "google-"+account+".token")
}

// GetOAuthConfig returns the OAuth2 client configuration. Client credentials
// come from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.
func GetOAuthConfig() *oauth2.Config {
	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	redirect := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirect == "" {
		redirect = OOB
	}
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       DefaultOAuthScopes,
	}
}

// HasTokenForAccount reports whether a token file exists for account
func HasTokenForAccount(account string) bool {
	if err := validateAccountName(account); err != nil {
		return false
	}
	_, err := os.Stat(getTokenFilePath(account))
	return err == nil
}

// GetAuthURLForAccount returns the URL the user visits to authorize account.
// The account name travels as the OAuth state.
func GetAuthURLForAccount(account string) string {
	return GetOAuthConfig().AuthCodeURL(account, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// SaveTokenForAccount exchanges an authorization code and stores the token for account
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	token, err := GetOAuthConfig().Exchange(ctx, strings.TrimSpace(authCode))
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return WriteToken(account, token)
}

// WriteToken stores token for account as JSON, readable only by the owner
func WriteToken(account string, token *oauth2.Token) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	if err := os.MkdirAll(tokenDir(), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(getTokenFilePath(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// ReadToken loads the stored token for account. Besides JSON it accepts the
// older "<access> <refresh>" file format; such tokens are treated as expired
// so the first use refreshes them.
func ReadToken(account string) (*oauth2.Token, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(getTokenFilePath(account))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for account %s", ErrNoToken, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err == nil {
		return &token, nil
	}

	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) != 2 {
		return nil, fmt.Errorf("invalid token format for account %s", account)
	}
	return &oauth2.Token{
		AccessToken:  fields[0],
		TokenType:    "Bearer",
		RefreshToken: fields[1],
		Expiry:       time.Unix(1, 0),
	}, nil
}

// GetTokenSourceForAccount returns a refreshing token source for the stored token of account
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	token, err := ReadToken(account)
	if err != nil {
		return nil, err
	}
	return GetOAuthConfig().TokenSource(ctx, token), nil
}

// NewHTTPClient returns an HTTP client authorizing requests with ts.
// The client uses HTTP/1.1 to avoid HTTP/2 stream errors seen with Google APIs.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client
}

// GetHTTPClientForAccount returns an authorized HTTP client for account
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(ctx, ts), nil
}

// GetAuthenticationErrorMessage explains how to authorize account
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf("Google OAuth token not found for account %q. Run 'qwilo auth --account %s' and follow the instructions to authorize Docs and Drive access.", account, account)
}
