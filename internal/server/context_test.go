package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/teemow/qwilo/internal/docs"
	"github.com/teemow/qwilo/internal/google"
)

func TestServerContext_Defaults(t *testing.T) {
	sc := NewServerContext(context.Background())

	assert.Equal(t, docs.DefaultTabSelectionPolicy(), sc.TabPolicy())
	assert.Empty(t, sc.OutputFolderID())
	assert.False(t, sc.ReadOnly())
	assert.Nil(t, sc.Analyzer())
	assert.NotNil(t, sc.Logger())
}

func TestServerContext_Options(t *testing.T) {
	policy := docs.TabSelectionPolicy{PreferTranscript: false}
	sc := NewServerContext(context.Background(),
		WithTabPolicy(policy),
		WithOutputFolder("reports"),
		WithReadOnly(true))

	assert.Equal(t, policy, sc.TabPolicy())
	assert.Equal(t, "reports", sc.OutputFolderID())
	assert.True(t, sc.ReadOnly())
}

func TestServerContext_DocsClientForAccount(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	sc := NewServerContext(context.Background(), WithServiceOptions(
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	))

	first, err := sc.DocsClientForAccount("work")
	require.NoError(t, err)
	second, err := sc.DocsClientForAccount("work")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "work", first.Account())

	def, err := sc.DocsClientForAccount("")
	require.NoError(t, err)
	assert.Equal(t, google.DefaultAccount, def.Account())

	assert.ElementsMatch(t, []string{"work", google.DefaultAccount}, sc.Accounts())
}

func TestServerContext_MissingToken(t *testing.T) {
	sc := NewServerContext(context.Background(), WithTokenProvider(google.StaticTokenProvider{}))

	_, err := sc.DocsClientForAccount("nobody")
	assert.ErrorIs(t, err, google.ErrNoToken)
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), WithTokenProvider(google.StaticTokenProvider{}))

	require.NoError(t, sc.Shutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	_, err := sc.DocsClientForAccount("work")
	assert.ErrorIs(t, err, ErrShutdown)
}
