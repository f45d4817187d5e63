package google

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetTokenFilePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QWILO_TOKEN_DIR", dir)

	assert.Equal(t, filepath.Join(dir, "google-default.token"), getTokenFilePath("default"))
	assert.Equal(t, filepath.Join(dir, "google-work.token"), getTokenFilePath("work"))
}

func TestWriteAndReadToken(t *testing.T) {
	t.Setenv("QWILO_TOKEN_DIR", t.TempDir())

	assert.False(t, HasTokenForAccount("work"))
	assert.False(t, HasTokenForAccount("invalid account"))

	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, WriteToken("work", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}))
	assert.True(t, HasTokenForAccount("work"))

	info, err := os.Stat(getTokenFilePath("work"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err := ReadToken("work")
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, token.Expiry.Equal(expiry))
}

func TestReadToken_LegacyFormat(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QWILO_TOKEN_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "google-default.token"), []byte("old_access old_refresh\n"), 0600))

	token, err := ReadToken(DefaultAccount)
	require.NoError(t, err)
	assert.Equal(t, "old_access", token.AccessToken)
	assert.Equal(t, "old_refresh", token.RefreshToken)
	assert.False(t, token.Valid(), "legacy tokens must be refreshed before use")
}

func TestReadToken_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QWILO_TOKEN_DIR", dir)

	_, err := ReadToken("missing")
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "google-broken.token"), []byte("one two three"), 0600))
	_, err = ReadToken("broken")
	assert.ErrorContains(t, err, "invalid token format")

	_, err = ReadToken("../escape")
	assert.Error(t, err)
}

func TestGetOAuthConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	conf := GetOAuthConfig()
	assert.Equal(t, "client-id", conf.ClientID)
	assert.Equal(t, "client-secret", conf.ClientSecret)
	assert.Equal(t, "urn:ietf:wg:oauth:2.0:oob", conf.RedirectURL)
	assert.Equal(t, DefaultOAuthScopes, conf.Scopes)

	url := GetAuthURLForAccount("work")
	assert.Contains(t, url, "state=work")
	assert.Contains(t, url, "access_type=offline")
}

func TestStaticTokenProvider(t *testing.T) {
	empty := StaticTokenProvider{}
	assert.False(t, empty.HasTokenForAccount("any"))
	_, err := empty.GetTokenForAccount(context.Background(), "any")
	assert.ErrorIs(t, err, ErrNoToken)

	provider := StaticTokenProvider{Token: &oauth2.Token{AccessToken: "abc", Expiry: time.Now().Add(time.Hour)}}
	assert.True(t, provider.HasTokenForAccount("any"))

	client, err := HTTPClientForProvider(context.Background(), provider, "any")
	require.NoError(t, err)
	transport, ok := client.Transport.(*oauth2.Transport)
	require.True(t, ok)
	base, ok := transport.Base.(*http.Transport)
	require.True(t, ok)
	assert.False(t, base.ForceAttemptHTTP2)

	_, err = HTTPClientForProvider(context.Background(), nil, "any")
	assert.Error(t, err)
}

func TestGetAuthenticationErrorMessage(t *testing.T) {
	msg := GetAuthenticationErrorMessage("work")
	assert.Contains(t, msg, `"work"`)
	assert.Contains(t, msg, "qwilo auth --account work")
}
