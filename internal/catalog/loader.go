package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/kode/internal/models"
)

// LoadSeedFile reads products from a local seed file. Supported formats:
// JSON (an array of product objects) and XLSX (header row of column names,
// one product per row).
func LoadSeedFile(path string) ([]*models.Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported seed format: %s", filepath.Ext(path))
	}
}

// Seed loads the seed file at path and upserts its products into the store.
// Returns the number of products loaded.
func Seed(ctx context.Context, store Store, path string) (int, error) {
	products, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	if err := store.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("seed upsert: %w", err)
	}
	return len(products), nil
}

func loadJSON(path string) ([]*models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return products, nil
}

func loadXLSX(path string) ([]*models.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open seed spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("seed spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	// First row is the header; columns are matched by name.
	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []*models.Product
	for n, row := range rows[1:] {
		sku := cell(row, "sku")
		if sku == "" {
			continue
		}
		price, err := strconv.ParseFloat(cell(row, "price"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", n+2, cell(row, "price"))
		}
		products = append(products, &models.Product{
			SKU:      sku,
			Title:    cell(row, "title"),
			Price:    price,
			Color:    cell(row, "color"),
			Material: cell(row, "material"),
			Style:    cell(row, "style"),
			Occasion: cell(row, "occasion"),
			Category: cell(row, "category"),
			ImageURL: cell(row, "image_url"),
		})
	}
	return products, nil
}
