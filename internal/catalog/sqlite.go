package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kode/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		sku TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		price REAL NOT NULL DEFAULT 0,
		color TEXT,
		material TEXT,
		style TEXT,
		occasion TEXT,
		category TEXT,
		image_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_products_occasion ON products(occasion);
	CREATE INDEX IF NOT EXISTS idx_products_color ON products(color);
	`
	_, err := db.Exec(schema)
	return err
}

const productColumns = "sku, title, price, color, material, style, occasion, category, image_url, created_at, updated_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.SKU, &p.Title, &p.Price, &p.Color, &p.Material, &p.Style,
		&p.Occasion, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts returns products matching the query's union of filters.
// With no filters at all, it returns up to Limit products.
func (s *SQLiteStore) SearchProducts(ctx context.Context, q *Query) ([]*models.Product, error) {
	if q == nil {
		q = &Query{}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var clauses []string
	var args []any

	for _, kw := range q.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		clauses = append(clauses, "lower(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}
	addIn := func(column string, values []string) {
		clean := make([]string, 0, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				clean = append(clean, strings.ToLower(v))
			}
		}
		if len(clean) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(clean)), ",")
		clauses = append(clauses, fmt.Sprintf("lower(%s) IN (%s)", column, placeholders))
		for _, v := range clean {
			args = append(args, v)
		}
	}
	addIn("color", q.Colors)
	addIn("occasion", q.Occasions)
	addIn("style", q.Styles)
	addIn("category", q.Categories)
	addIn("material", q.Materials)

	query := "SELECT " + productColumns + " FROM products"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " OR ")
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns a product by SKU.
func (s *SQLiteStore) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE sku = ?", sku)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", sku)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpsertProducts inserts or replaces products in a single transaction.
func (s *SQLiteStore) UpsertProducts(ctx context.Context, products []*models.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (sku, title, price, color, material, style, occasion, category, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(sku) DO UPDATE SET
		   title=excluded.title, price=excluded.price, color=excluded.color,
		   material=excluded.material, style=excluded.style, occasion=excluded.occasion,
		   category=excluded.category, image_url=excluded.image_url, updated_at=excluded.updated_at`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, p := range products {
		if p.SKU == "" {
			return fmt.Errorf("product without sku: %q", p.Title)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if _, err := stmt.ExecContext(ctx, p.SKU, p.Title, p.Price, p.Color, p.Material,
			p.Style, p.Occasion, p.Category, p.ImageURL, p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteProduct removes a product by SKU.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, sku string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE sku = ?`, sku)
	return err
}

// ListProducts returns products with offset and limit, newest first.
func (s *SQLiteStore) ListProducts(ctx context.Context, offset, limit int) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts returns the total number of products.
func (s *SQLiteStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
