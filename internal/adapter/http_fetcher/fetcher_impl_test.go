package http_fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{}, zap.NewNop())
	assert.Equal(t, Engine, f.Engine())

	html, err := f.Fetch(context.Background(), srv.URL, map[string]string{
		"User-Agent": "Mozilla/5.0 Test",
		"Sec-Ch-Ua":  `"Chromium";v="124"`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<html><body>ok</body></html>", html)
	assert.Equal(t, "Mozilla/5.0 Test", got.Get("User-Agent"))
	assert.Equal(t, `"Chromium";v="124"`, got.Get("Sec-Ch-Ua"))
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(Options{}, zap.NewNop()).Fetch(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPFetcher(Options{CloudflareBypass: true}, zap.NewNop()).Fetch(ctx, srv.URL, nil)
	require.Error(t, err)
}
