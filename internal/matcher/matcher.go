// Package matcher retrieves candidate products for a keyword bundle and
// scores their relevance.
package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/catalog"
	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/internal/rules"
	"github.com/hyperjump/kode/pkg/utils"
)

// Matcher queries the product store and computes per-candidate relevance.
type Matcher struct {
	store   catalog.Store
	rules   *rules.Rules
	weights *Weights
	logger  *zap.Logger
}

// New creates a Matcher with the given store, rule tables, and weights.
func New(store catalog.Store, r *rules.Rules, weights *Weights, logger *zap.Logger) *Matcher {
	if r == nil {
		r = rules.Default()
	}
	if weights == nil {
		weights = DefaultWeights()
	}
	weights.ApplyDefaults()
	return &Matcher{
		store:   store,
		rules:   r,
		weights: weights,
		logger:  utils.LoggerOrNop(logger),
	}
}

// Match returns up to maxCandidates scored candidates for the bundle,
// ordered by score descending. Candidates below the relevance floor are
// discarded; when that would leave nothing the floor is relaxed rather than
// returning empty. A store failure here is the pipeline's one hard error.
func (m *Matcher) Match(ctx context.Context, bundle *models.KeywordBundle, maxCandidates int) ([]*models.Candidate, error) {
	if maxCandidates <= 0 {
		maxCandidates = m.weights.MaxCandidates
	}

	query := m.buildQuery(bundle, maxCandidates*4)
	products, err := m.store.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}
	m.logger.Debug("primary product query",
		zap.Int("results", len(products)),
		zap.Strings("keywords", query.Keywords))

	candidates := m.scoreAll(products, bundle)
	candidates = m.applyFloor(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, nil
}

// MatchCategory runs a targeted query constrained to a single resolved
// category, used by the balancer to fill top/bottom gaps. Only products
// whose resolved category equals the requested one are returned.
func (m *Matcher) MatchCategory(ctx context.Context, bundle *models.KeywordBundle, category models.Category, limit int) ([]*models.Candidate, error) {
	if limit <= 0 {
		limit = 3
	}

	query := m.buildQuery(bundle, limit*10)
	query.Categories = []string{string(category)}
	products, err := m.store.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("category product search: %w", err)
	}

	candidates := m.scoreAll(products, bundle)
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.ResolvedCategory == category {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// buildQuery translates a bundle into a union store query.
func (m *Matcher) buildQuery(bundle *models.KeywordBundle, limit int) *catalog.Query {
	q := &catalog.Query{Limit: limit}
	if bundle == nil {
		return q
	}
	q.Keywords = bundle.Keywords
	q.Colors = bundle.Colors
	q.Occasions = bundle.Occasions
	q.Styles = bundle.Styles
	q.Categories = bundle.Categories
	q.Materials = bundle.Materials
	return q
}

func (m *Matcher) scoreAll(products []*models.Product, bundle *models.KeywordBundle) []*models.Candidate {
	candidates := make([]*models.Candidate, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, &models.Candidate{
			Product:          p,
			Score:            m.scoreProduct(p, bundle),
			ResolvedCategory: m.rules.ResolveCategory(p.Title, p.Category),
		})
	}
	return candidates
}

// scoreProduct computes the relevance of one product against the bundle,
// clamped to [0,1].
func (m *Matcher) scoreProduct(p *models.Product, bundle *models.KeywordBundle) float64 {
	if bundle == nil {
		return 0
	}
	var score float64

	if colorScore := m.colorScore(p.Color, bundle.Colors); colorScore > 0 {
		score += colorScore
	}
	if matchesAny(p.Occasion, bundle.Occasions) {
		score += m.weights.Occasion
	}
	resolved := m.rules.ResolveCategory(p.Title, p.Category)
	for _, hint := range bundle.Categories {
		if strings.EqualFold(hint, string(resolved)) {
			score += m.weights.CategoryHint
			break
		}
	}
	if matchesAny(p.Style, bundle.Styles) {
		score += m.weights.Style
	}
	if matchesAny(p.Material, bundle.Materials) {
		score += m.weights.Material
	}

	var keywordBonus float64
	for _, kw := range bundle.Keywords {
		if utils.ContainsFold(p.Title, kw) {
			keywordBonus += m.weights.KeywordBonus
		}
	}
	if keywordBonus > m.weights.KeywordCap {
		keywordBonus = m.weights.KeywordCap
	}
	score += keywordBonus

	if score > 1 {
		score = 1
	}
	return score
}

// colorScore returns the exact-match weight when the product color appears
// in the requested colors, the compatible weight when it pairs well with
// one of them, and 0 otherwise.
func (m *Matcher) colorScore(productColor string, wanted []string) float64 {
	productColor = strings.ToLower(strings.TrimSpace(productColor))
	if productColor == "" || len(wanted) == 0 {
		return 0
	}
	for _, w := range wanted {
		if strings.EqualFold(productColor, strings.TrimSpace(w)) {
			return m.weights.ColorExact
		}
	}
	for _, w := range wanted {
		if m.rules.ColorListed(productColor, w) {
			return m.weights.ColorCompatible
		}
	}
	return 0
}

// applyFloor drops candidates below the relevance floor. If nothing
// survives, the relaxed floor is tried; if even that is empty, the scored
// list is returned unfiltered so a tunable threshold cannot empty the
// result on its own.
func (m *Matcher) applyFloor(candidates []*models.Candidate) []*models.Candidate {
	for _, floor := range []float64{m.weights.RelevanceFloor, m.weights.RelaxedFloor} {
		kept := make([]*models.Candidate, 0, len(candidates))
		for _, c := range candidates {
			if c.Score >= floor {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			return kept
		}
		m.logger.Debug("relevance floor left no candidates, relaxing",
			zap.Float64("floor", floor))
	}
	return candidates
}

func matchesAny(value string, wanted []string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, w := range wanted {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if strings.EqualFold(value, w) || utils.ContainsFold(value, w) || utils.ContainsFold(w, value) {
			return true
		}
	}
	return false
}
