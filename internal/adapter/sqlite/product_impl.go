package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/user/scrapekit/internal/entity"
	_ "modernc.org/sqlite"
)

// ProductRepoImpl stores parsed product records in a local SQLite file.
type ProductRepoImpl struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(dbPath string) (*ProductRepoImpl, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &ProductRepoImpl{db: db}
	if err := r.init(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *ProductRepoImpl) init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS product_records (
			url         TEXT PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			best_image  TEXT NOT NULL DEFAULT '',
			parsed_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_product_records_parsed ON product_records(parsed_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *ProductRepoImpl) Close() error {
	return r.db.Close()
}

// Save stores or updates the record for its URL.
func (r *ProductRepoImpl) Save(ctx context.Context, rec *entity.ProductRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_records (url, title, description, best_image, parsed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			best_image = excluded.best_image,
			parsed_at = excluded.parsed_at
	`, rec.URL, rec.Title, rec.Description, rec.BestImage, rec.ParsedAt.UTC())
	if err != nil {
		return fmt.Errorf("upserting product %s: %w", rec.URL, err)
	}
	return nil
}

// FindByURL retrieves the record for url. It returns nil, nil when none exists.
func (r *ProductRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ProductRecord, error) {
	var rec entity.ProductRecord
	var parsed time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT url, title, description, best_image, parsed_at
		FROM product_records WHERE url = ?
	`, url).Scan(&rec.URL, &rec.Title, &rec.Description, &rec.BestImage, &parsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.ParsedAt = parsed
	return &rec, nil
}

// Recent returns up to limit records, newest first.
func (r *ProductRepoImpl) Recent(ctx context.Context, limit int) ([]entity.ProductRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT url, title, description, best_image, parsed_at
		FROM product_records ORDER BY parsed_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.ProductRecord
	for rows.Next() {
		var rec entity.ProductRecord
		if err := rows.Scan(&rec.URL, &rec.Title, &rec.Description, &rec.BestImage, &rec.ParsedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
