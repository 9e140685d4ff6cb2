// Package models defines core data structures for products, keyword bundles, and outfits.
package models

import "time"

// Category is a resolved clothing category used for outfit assembly.
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryDress     Category = "dress"
	CategoryOuterwear Category = "outerwear"
	CategoryOther     Category = "other"
)

// Product represents a catalog row with vision-tagged attributes.
type Product struct {
	SKU       string    `json:"sku" db:"sku"`
	Title     string    `json:"title" db:"title"`
	Price     float64   `json:"price" db:"price"`
	Color     string    `json:"color" db:"color"`
	Material  string    `json:"material" db:"material"`
	Style     string    `json:"style" db:"style"`
	Occasion  string    `json:"occasion" db:"occasion"`
	Category  string    `json:"category" db:"category"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Candidate is a product under consideration for an outfit, enriched with
// a relevance score and a resolved category. The stored category label is
// kept on the product; ResolvedCategory may differ when a title-keyword
// override corrects a mislabeled row.
type Candidate struct {
	Product          *Product `json:"product"`
	Score            float64  `json:"score"`
	ResolvedCategory Category `json:"resolved_category"`
}

// SKU returns the underlying product SKU, or "" when no product is attached.
func (c *Candidate) SKU() string {
	if c == nil || c.Product == nil {
		return ""
	}
	return c.Product.SKU
}
