// Package catalog defines the product store boundary and its SQLite implementation.
package catalog

import (
	"context"

	"github.com/hyperjump/kode/internal/models"
)

// Query describes a product search. Filters are unioned, not intersected:
// a row matching any keyword or any filter value is returned, so partial
// relevance still surfaces results.
type Query struct {
	Keywords   []string
	Colors     []string
	Occasions  []string
	Styles     []string
	Categories []string
	Materials  []string
	Limit      int
}

// Store defines product persistence and retrieval operations.
type Store interface {
	SearchProducts(ctx context.Context, q *Query) ([]*models.Product, error)
	GetProduct(ctx context.Context, sku string) (*models.Product, error)
	UpsertProducts(ctx context.Context, products []*models.Product) error
	DeleteProduct(ctx context.Context, sku string) error
	ListProducts(ctx context.Context, offset, limit int) ([]*models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	Close() error
}
