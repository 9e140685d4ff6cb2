// Package balancer fills category gaps in a candidate set so the assembler
// always has material for coordinated sets.
package balancer

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/matcher"
	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/pkg/utils"
)

// Balancer inspects matched candidates and issues targeted supplemental
// queries when tops or bottoms are missing. Balancing is best-effort:
// supplemental query errors are logged and swallowed, never fatal.
type Balancer struct {
	matcher *matcher.Matcher
	fill    int
	logger  *zap.Logger
}

// New creates a Balancer. fill bounds how many candidates a supplemental
// query may add per category (default 3).
func New(m *matcher.Matcher, fill int, logger *zap.Logger) *Balancer {
	if fill <= 0 {
		fill = 3
	}
	return &Balancer{
		matcher: m,
		fill:    fill,
		logger:  utils.LoggerOrNop(logger),
	}
}

// Balance returns the candidate list with top/bottom gaps filled. The input
// order is preserved; supplemental candidates are appended, deduplicated by
// SKU. Dress-only requests skip balancing entirely.
func (b *Balancer) Balance(ctx context.Context, candidates []*models.Candidate, bundle *models.KeywordBundle) []*models.Candidate {
	if bundle.DressOnly() {
		return candidates
	}

	counts := make(map[models.Category]int, 4)
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		counts[c.ResolvedCategory]++
		seen[c.SKU()] = true
	}

	for _, category := range []models.Category{models.CategoryTop, models.CategoryBottom} {
		if counts[category] > 0 {
			continue
		}
		extra, err := b.matcher.MatchCategory(ctx, bundle, category, b.fill)
		if err != nil {
			b.logger.Warn("supplemental category query failed",
				zap.String("category", string(category)), zap.Error(err))
			continue
		}
		added := 0
		for _, c := range extra {
			if seen[c.SKU()] {
				continue
			}
			seen[c.SKU()] = true
			candidates = append(candidates, c)
			added++
		}
		b.logger.Debug("category gap filled",
			zap.String("category", string(category)), zap.Int("added", added))
	}
	return candidates
}
