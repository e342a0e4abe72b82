package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnksm/go-input"
	"github.com/user/scrapekit/internal/entity"
	"go.uber.org/zap"
)

func TestStoreKind(t *testing.T) {
	tests := []struct {
		in     string
		kind   string
		target string
	}{
		{"", "", ""},
		{"postgres://u:p@localhost:5432/db", "postgres", "postgres://u:p@localhost:5432/db"},
		{"postgresql://localhost/db", "postgres", "postgresql://localhost/db"},
		{"sqlite://data/products.db", "sqlite", "data/products.db"},
		{"sqlite:products.db", "sqlite", "products.db"},
		{"/var/lib/scrapekit/products.db", "sqlite", "/var/lib/scrapekit/products.db"},
		{"mysql://localhost/db", "unsupported", "mysql://localhost/db"},
	}
	for _, tt := range tests {
		kind, target := storeKind(tt.in)
		assert.Equal(t, tt.kind, kind, tt.in)
		assert.Equal(t, tt.target, target, tt.in)
	}
}

func TestNewAppWiresFileStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("HEADERS_CACHE_PATH", filepath.Join(dir, "headers_cache.json"))
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(dir, "products.db"))
	t.Setenv("GEMINI_API_KEY", "")

	a, err := newApp(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	defer a.Close()

	snap, err := a.headers.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Headers)

	parser, err := a.productParser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, parser)

	db, err := a.productDB(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.FileExists(t, filepath.Join(dir, "logs", "app.log"))
}

func TestNewAppFailsWhenRedisIsUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("HEADERS_CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", addr)

	_, err = newApp(filepath.Join(dir, "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

type scriptedUI struct {
	answers []string
	asked   []string
}

func (s *scriptedUI) Ask(query string, _ *input.Options) (string, error) {
	s.asked = append(s.asked, query)
	if len(s.answers) == 0 {
		return "", errors.New("no answer")
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func TestAskIfEmpty(t *testing.T) {
	scripted := &scriptedUI{answers: []string{"  https://shop.com/p  "}}
	prev := ui
	ui = scripted
	defer func() { ui = prev }()

	v, err := askIfEmpty("given", "Enter the URL of the page to save:", true)
	require.NoError(t, err)
	assert.Equal(t, "given", v)
	assert.Empty(t, scripted.asked)

	v, err = askIfEmpty("", "Enter the URL of the page to save:", true)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.com/p", v)
	assert.Equal(t, []string{"Enter the URL of the page to save:"}, scripted.asked)
}

func TestRenderHeaders(t *testing.T) {
	var buf bytes.Buffer
	renderHeaders(&buf, &entity.HeaderSnapshot{
		Headers:   []entity.HeaderSet{{"user-agent": "Mozilla/5.0 Test", "sec-ch-ua-platform": `"Linux"`}},
		FetchedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	out := buf.String()
	assert.Contains(t, out, "Mozilla/5.0 Test")
	assert.Contains(t, out, "2024-05-01T00:00:00Z")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: addr, Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, zap.NewNop()) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
