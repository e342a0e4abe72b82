package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/scrapekit/internal/adapter/sqlite"
	"github.com/user/scrapekit/internal/entity"
)

func openTestCatalog(t *testing.T) *sqlite.ProductRepoImpl {
	t.Helper()
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "products.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &entity.ProductRecord{URL: "https://shop.com/mug", Title: "Blue Mug", Description: "A mug.", ParsedAt: base}))
	require.NoError(t, repo.Save(ctx, &entity.ProductRecord{URL: "https://shop.com/captcha", ParsedAt: base.Add(time.Minute)}))
	return repo
}

func TestListProducts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listProducts(context.Background(), openTestCatalog(t), 10, &buf))

	out := buf.String()
	assert.Contains(t, out, "Blue Mug")
	assert.Contains(t, out, "(invalid page)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("captcha")), bytes.Index(buf.Bytes(), []byte("Blue Mug")))
}

func TestListProductsRejectsBadLimit(t *testing.T) {
	err := listProducts(context.Background(), openTestCatalog(t), 0, &bytes.Buffer{})
	require.Error(t, err)
}

func TestShowProduct(t *testing.T) {
	catalog := openTestCatalog(t)

	var buf bytes.Buffer
	require.NoError(t, showProduct(context.Background(), catalog, "https://shop.com/mug", &buf))
	assert.Contains(t, buf.String(), "A mug.")

	err := showProduct(context.Background(), catalog, "https://shop.com/none", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no product record")
}

func TestProductsWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("HEADERS_CACHE_PATH", filepath.Join(dir, "headers_cache.json"))
	t.Setenv("DATABASE_URL", "")

	a, err := newApp(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	defer a.Close()

	catalog, err := a.productDB(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, listProducts(context.Background(), catalog, 5, &bytes.Buffer{}), errNoCatalog)
	require.ErrorIs(t, showProduct(context.Background(), catalog, "https://shop.com/mug", &bytes.Buffer{}), errNoCatalog)
}
