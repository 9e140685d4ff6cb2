package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/kode/internal/catalog"
	"github.com/hyperjump/kode/internal/models"
)

// fakeStore returns canned products and records the queries it saw.
type fakeStore struct {
	products []*models.Product
	err      error
	queries  []*catalog.Query
}

func (f *fakeStore) SearchProducts(ctx context.Context, q *catalog.Query) ([]*models.Product, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if len(q.Categories) > 0 {
		var filtered []*models.Product
		for _, p := range f.products {
			for _, c := range q.Categories {
				if p.Category == c {
					filtered = append(filtered, p)
					break
				}
			}
		}
		return filtered, nil
	}
	return f.products, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStore) UpsertProducts(ctx context.Context, products []*models.Product) error {
	return nil
}
func (f *fakeStore) DeleteProduct(ctx context.Context, sku string) error { return nil }
func (f *fakeStore) ListProducts(ctx context.Context, offset, limit int) ([]*models.Product, error) {
	return f.products, nil
}
func (f *fakeStore) CountProducts(ctx context.Context) (int64, error) {
	return int64(len(f.products)), nil
}
func (f *fakeStore) Close() error { return nil }

func product(sku, title, color, occasion, style, material, category string) *models.Product {
	return &models.Product{
		SKU: sku, Title: title, Price: 49.90,
		Color: color, Occasion: occasion, Style: style,
		Material: material, Category: category,
	}
}

func TestScoreProduct(t *testing.T) {
	m := New(&fakeStore{}, nil, nil, nil)

	tests := []struct {
		name    string
		product *models.Product
		bundle  *models.KeywordBundle
		want    float64
	}{
		{
			"color exact",
			product("s1", "Satin Camisole", "black", "", "", "", "top"),
			&models.KeywordBundle{Colors: []string{"black"}},
			0.25,
		},
		{
			"color compatible",
			product("s2", "Satin Camisole", "navy", "", "", "", "top"),
			&models.KeywordBundle{Colors: []string{"black"}},
			0.15,
		},
		{
			"color unrelated scores nothing",
			product("s3", "Satin Camisole", "red", "", "", "", "top"),
			&models.KeywordBundle{Colors: []string{"green"}},
			0,
		},
		{
			"occasion",
			product("s4", "Sequin Piece", "", "party", "", "", "top"),
			&models.KeywordBundle{Occasions: []string{"party"}},
			0.20,
		},
		{
			"category hint against resolved category",
			product("s5", "Silk Blouse", "", "", "", "", "bottom"), // mislabeled
			&models.KeywordBundle{Categories: []string{"top"}},
			0.20,
		},
		{
			"style and material",
			product("s6", "Wrap Piece", "", "", "elegant", "silk", "top"),
			&models.KeywordBundle{Styles: []string{"elegant"}, Materials: []string{"silk"}},
			0.25,
		},
		{
			"keyword bonus capped",
			product("s7", "Black Party Dance Night Skirt", "", "", "", "", "bottom"),
			&models.KeywordBundle{Keywords: []string{"black", "party", "dance", "night", "skirt"}},
			0.15,
		},
		{
			"all signals clamp to one",
			product("s8", "Black Party Skirt", "black", "party", "elegant", "silk", "bottom"),
			&models.KeywordBundle{
				Keywords:   []string{"black", "party", "skirt"},
				Colors:     []string{"black"},
				Occasions:  []string{"party"},
				Styles:     []string{"elegant"},
				Categories: []string{"bottom"},
				Materials:  []string{"silk"},
			},
			1.0,
		},
		{
			"empty bundle scores zero",
			product("s9", "Anything", "black", "party", "", "", "top"),
			&models.KeywordBundle{},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.scoreProduct(tt.product, tt.bundle)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("scoreProduct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchOrdersAndCaps(t *testing.T) {
	store := &fakeStore{products: []*models.Product{
		product("low", "Plain Tee", "", "casual", "", "", "top"),
		product("high", "Black Party Skirt", "black", "party", "", "", "bottom"),
		product("mid", "Party Blouse", "", "party", "", "", "top"),
	}}
	m := New(store, nil, nil, nil)
	bundle := &models.KeywordBundle{
		Keywords:  []string{"party", "skirt"},
		Colors:    []string{"black"},
		Occasions: []string{"party"},
	}

	got, err := m.Match(context.Background(), bundle, 2)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected cap at 2 candidates, got %d", len(got))
	}
	if got[0].SKU() != "high" {
		t.Errorf("highest scored first, got %s", got[0].SKU())
	}
	if got[0].Score < got[1].Score {
		t.Error("candidates not ordered by score descending")
	}
}

func TestMatchResolvesCategories(t *testing.T) {
	store := &fakeStore{products: []*models.Product{
		product("p1", "Silk Blouse", "", "party", "", "", "bottom"),
		product("p2", "Pencil Skirt", "", "party", "", "", "top"),
		product("p3", "Slip Dress", "", "party", "", "", "other"),
	}}
	m := New(store, nil, nil, nil)

	got, err := m.Match(context.Background(), &models.KeywordBundle{Occasions: []string{"party"}}, 10)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	want := map[string]models.Category{
		"p1": models.CategoryTop,
		"p2": models.CategoryBottom,
		"p3": models.CategoryDress,
	}
	for _, c := range got {
		if c.ResolvedCategory != want[c.SKU()] {
			t.Errorf("%s resolved as %s, want %s", c.SKU(), c.ResolvedCategory, want[c.SKU()])
		}
	}
}

func TestMatchRelaxesFloorInsteadOfReturningEmpty(t *testing.T) {
	store := &fakeStore{products: []*models.Product{
		product("weak", "Loose Match Cardigan", "", "", "", "", "top"),
	}}
	m := New(store, nil, nil, nil)
	// Single keyword hit scores 0.05, below the 0.15 floor but above the
	// relaxed 0.01 floor.
	got, err := m.Match(context.Background(), &models.KeywordBundle{Keywords: []string{"cardigan"}}, 10)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected relaxed floor to keep the weak candidate, got %d", len(got))
	}
}

func TestMatchDiscardsBelowFloor(t *testing.T) {
	store := &fakeStore{products: []*models.Product{
		product("strong", "Party Skirt", "", "party", "", "", "bottom"),
		product("weak", "Plain Trouser", "", "", "", "", "bottom"),
	}}
	m := New(store, nil, nil, nil)
	got, err := m.Match(context.Background(), &models.KeywordBundle{Occasions: []string{"party"}}, 10)
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if len(got) != 1 || got[0].SKU() != "strong" {
		t.Errorf("expected only the candidate above the floor, got %d", len(got))
	}
}

func TestMatchPropagatesStoreError(t *testing.T) {
	m := New(&fakeStore{err: errors.New("connection lost")}, nil, nil, nil)
	if _, err := m.Match(context.Background(), &models.KeywordBundle{Keywords: []string{"x"}}, 5); err == nil {
		t.Fatal("expected primary query error to propagate")
	}
}

func TestMatchCategory(t *testing.T) {
	store := &fakeStore{products: []*models.Product{
		product("t1", "Party Blouse", "", "party", "", "", "top"),
		product("t2", "Party Shirt", "", "party", "", "", "top"),
		product("b1", "Party Skirt", "", "party", "", "", "bottom"),
	}}
	m := New(store, nil, nil, nil)

	got, err := m.MatchCategory(context.Background(), &models.KeywordBundle{Occasions: []string{"party"}}, models.CategoryTop, 3)
	if err != nil {
		t.Fatalf("MatchCategory() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tops, got %d", len(got))
	}
	for _, c := range got {
		if c.ResolvedCategory != models.CategoryTop {
			t.Errorf("%s resolved as %s, want top", c.SKU(), c.ResolvedCategory)
		}
	}
	last := store.queries[len(store.queries)-1]
	if len(last.Categories) != 1 || last.Categories[0] != "top" {
		t.Errorf("targeted query should constrain category, got %v", last.Categories)
	}
}
