package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/scrapekit/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS product_records (
	id          BIGSERIAL PRIMARY KEY,
	url         TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	best_image  TEXT NOT NULL DEFAULT '',
	parsed_at   TIMESTAMPTZ NOT NULL
);`

// ProductRepoImpl stores parsed product records in PostgreSQL.
type ProductRepoImpl struct {
	db *pgxpool.Pool
}

// NewProductRepo creates a new instance of ProductRepoImpl.
func NewProductRepo(db *pgxpool.Pool) *ProductRepoImpl {
	return &ProductRepoImpl{db: db}
}

// Connect opens a pool and makes sure the schema exists.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	if err := NewProductRepo(db).EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the product_records table if needed.
func (r *ProductRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create product_records: %w", err)
	}
	return nil
}

// Save stores or updates the record for its URL.
func (r *ProductRepoImpl) Save(ctx context.Context, rec *entity.ProductRecord) error {
	query := `
		INSERT INTO product_records (url, title, description, best_image, parsed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			best_image = EXCLUDED.best_image,
			parsed_at = EXCLUDED.parsed_at;
	`
	_, err := r.db.Exec(ctx, query, rec.URL, rec.Title, rec.Description, rec.BestImage, rec.ParsedAt)
	return err
}

// FindByURL retrieves the record for url. It returns nil, nil when none exists.
func (r *ProductRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ProductRecord, error) {
	query := `
		SELECT url, title, description, best_image, parsed_at
		FROM product_records
		WHERE url = $1;
	`
	var rec entity.ProductRecord
	err := r.db.QueryRow(ctx, query, url).Scan(&rec.URL, &rec.Title, &rec.Description, &rec.BestImage, &rec.ParsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns up to limit records, newest first.
func (r *ProductRepoImpl) Recent(ctx context.Context, limit int) ([]entity.ProductRecord, error) {
	query := `
		SELECT url, title, description, best_image, parsed_at
		FROM product_records
		ORDER BY parsed_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
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

// Close releases the pool.
func (r *ProductRepoImpl) Close() error {
	r.db.Close()
	return nil
}
