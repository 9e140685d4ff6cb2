package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/assembler"
	"github.com/hyperjump/kode/internal/balancer"
	"github.com/hyperjump/kode/internal/catalog"
	"github.com/hyperjump/kode/internal/config"
	"github.com/hyperjump/kode/internal/expander"
	"github.com/hyperjump/kode/internal/matcher"
	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/internal/recommend"
)

type fakeStore struct {
	products map[string]*models.Product
	err      error
}

func newFakeStore(products ...*models.Product) *fakeStore {
	f := &fakeStore{products: make(map[string]*models.Product)}
	for _, p := range products {
		f.products[p.SKU] = p
	}
	return f
}

func (f *fakeStore) all() []*models.Product {
	out := make([]*models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out
}

func (f *fakeStore) SearchProducts(ctx context.Context, q *catalog.Query) ([]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(q.Categories) > 0 {
		var filtered []*models.Product
		for _, p := range f.all() {
			for _, c := range q.Categories {
				if p.Category == c {
					filtered = append(filtered, p)
					break
				}
			}
		}
		return filtered, nil
	}
	return f.all(), nil
}

func (f *fakeStore) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[sku]
	if !ok {
		return nil, errors.New("product not found")
	}
	return p, nil
}

func (f *fakeStore) UpsertProducts(ctx context.Context, products []*models.Product) error {
	if f.err != nil {
		return f.err
	}
	for _, p := range products {
		f.products[p.SKU] = p
	}
	return nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, sku string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.products, sku)
	return nil
}

func (f *fakeStore) ListProducts(ctx context.Context, offset, limit int) ([]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.all(), nil
}

func (f *fakeStore) CountProducts(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.products)), nil
}

func (f *fakeStore) Close() error { return nil }

func newTestServer(store catalog.Store) *Server {
	m := matcher.New(store, nil, nil, nil)
	engine := recommend.NewEngine(
		expander.New(nil, nil, time.Second, 0, nil),
		m,
		balancer.New(m, 3, nil),
		assembler.New(nil, nil, nil),
		nil,
		nil,
	)
	return NewServer(engine, store, &config.ServerConfig{Host: "localhost", Port: 8080}, zap.NewNop())
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHandleRecommend(t *testing.T) {
	store := newFakeStore(
		&models.Product{SKU: "d1", Title: "Black Party Dress", Price: 120, Color: "black", Occasion: "party", Category: "dress"},
	)
	w := doRequest(t, newTestServer(store), http.MethodPost, "/api/v1/recommend",
		`{"message":"black party dress","count":3}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp models.RecommendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	if resp.Outfits[0].Items[0].Product.SKU != "d1" {
		t.Errorf("unexpected outfit item: %+v", resp.Outfits[0].Items[0])
	}
}

func TestHandleRecommendBadRequests(t *testing.T) {
	s := newTestServer(newFakeStore())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"empty message", `{"message":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/api/v1/recommend", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleRecommendStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("db locked")
	w := doRequest(t, newTestServer(store), http.MethodPost, "/api/v1/recommend", `{"message":"dress"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHandleUpsertProducts(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	w := doRequest(t, s, http.MethodPost, "/api/v1/products",
		`[{"sku":"t1","title":"Silk Blouse","price":60}]`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if _, ok := store.products["t1"]; !ok {
		t.Error("product not stored")
	}

	w = doRequest(t, s, http.MethodPost, "/api/v1/products", `[]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty list status = %d, want 400", w.Code)
	}
}

func TestHandleGetProduct(t *testing.T) {
	store := newFakeStore(&models.Product{SKU: "t1", Title: "Silk Blouse"})
	s := newTestServer(store)

	w := doRequest(t, s, http.MethodGet, "/api/v1/products/t1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if p.Title != "Silk Blouse" {
		t.Errorf("title = %q", p.Title)
	}

	w = doRequest(t, s, http.MethodGet, "/api/v1/products/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing sku status = %d, want 404", w.Code)
	}
}

func TestHandleDeleteProduct(t *testing.T) {
	store := newFakeStore(&models.Product{SKU: "t1", Title: "Silk Blouse"})
	w := doRequest(t, newTestServer(store), http.MethodDelete, "/api/v1/products/t1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(store.products) != 0 {
		t.Error("product not deleted")
	}
}

func TestHandleListProducts(t *testing.T) {
	store := newFakeStore(
		&models.Product{SKU: "t1", Title: "Silk Blouse"},
		&models.Product{SKU: "b1", Title: "Pencil Skirt"},
	)
	w := doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"count":2`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	w := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestHandleStatus(t *testing.T) {
	store := newFakeStore(&models.Product{SKU: "t1"})
	w := doRequest(t, newTestServer(store), http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"products":1`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
