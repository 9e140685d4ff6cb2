// Package assembler builds concrete outfits from balanced candidates using
// three pooled strategies: complete dresses, coordinated top+bottom sets,
// and statement pieces.
package assembler

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/internal/rules"
	"github.com/hyperjump/kode/pkg/utils"
)

// Config holds assembly tunables.
type Config struct {
	// PairLimit bounds the combinatorics of the coordinated-set strategy:
	// only the top PairLimit tops and bottoms are paired.
	PairLimit int
	// StatementFloor is the minimum score for a non-dress item to be
	// emitted alone as a statement piece.
	StatementFloor float64
}

// ApplyDefaults sets default values for any zero fields.
func (c *Config) ApplyDefaults() {
	if c.PairLimit == 0 {
		c.PairLimit = 3
	}
	if c.StatementFloor == 0 {
		c.StatementFloor = 0.5
	}
}

// Assembler turns candidates into outfit objects.
type Assembler struct {
	rules  *rules.Rules
	config *Config
	logger *zap.Logger
}

// New creates an Assembler with the given rule tables and config.
func New(r *rules.Rules, cfg *Config, logger *zap.Logger) *Assembler {
	if r == nil {
		r = rules.Default()
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ApplyDefaults()
	return &Assembler{
		rules:  r,
		config: cfg,
		logger: utils.LoggerOrNop(logger),
	}
}

// Assemble runs the three generation strategies and pools their output.
// The pool is unranked and may exceed desiredCount; the diversifier dedups
// and caps it. An empty pool is a valid outcome.
func (a *Assembler) Assemble(candidates []*models.Candidate, bundle *models.KeywordBundle, desiredCount int) []*models.Outfit {
	groups := groupByCategory(candidates)

	var outfits []*models.Outfit
	outfits = append(outfits, a.completeDresses(groups[models.CategoryDress], bundle)...)

	sets, paired := a.coordinatedSets(groups[models.CategoryTop], groups[models.CategoryBottom], bundle)
	outfits = append(outfits, sets...)
	outfits = append(outfits, a.statementPieces(candidates, paired, bundle)...)

	a.logger.Debug("outfit pool assembled",
		zap.Int("candidates", len(candidates)),
		zap.Int("outfits", len(outfits)),
		zap.Int("desired", desiredCount))
	return outfits
}

func groupByCategory(candidates []*models.Candidate) map[models.Category][]*models.Candidate {
	groups := make(map[models.Category][]*models.Candidate)
	for _, c := range candidates {
		groups[c.ResolvedCategory] = append(groups[c.ResolvedCategory], c)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
	}
	return groups
}

// completeDresses emits one single-item outfit per dress candidate.
func (a *Assembler) completeDresses(dresses []*models.Candidate, bundle *models.KeywordBundle) []*models.Outfit {
	outfits := make([]*models.Outfit, 0, len(dresses))
	for _, dress := range dresses {
		outfits = append(outfits, &models.Outfit{
			ID:         uuid.NewString(),
			Title:      dressTitle(bundle),
			Type:       models.OutfitCompleteDress,
			Items:      []*models.Candidate{dress},
			TotalPrice: dress.Product.Price,
			Score:      dress.Score,
			Rationale:  dressRationale(dress, bundle),
		})
	}
	return outfits
}

// coordinatedSets pairs the top PairLimit tops with the top PairLimit
// bottoms, keeping only color-compatible pairs. It also reports which SKUs
// were consumed by a pair, so the statement strategy can skip them.
func (a *Assembler) coordinatedSets(tops, bottoms []*models.Candidate, bundle *models.KeywordBundle) ([]*models.Outfit, map[string]bool) {
	paired := make(map[string]bool)
	if len(tops) > a.config.PairLimit {
		tops = tops[:a.config.PairLimit]
	}
	if len(bottoms) > a.config.PairLimit {
		bottoms = bottoms[:a.config.PairLimit]
	}

	var outfits []*models.Outfit
	for _, top := range tops {
		for _, bottom := range bottoms {
			if !a.rules.ColorCompatible(top.Product.Color, bottom.Product.Color) {
				continue
			}
			paired[top.SKU()] = true
			paired[bottom.SKU()] = true
			outfits = append(outfits, &models.Outfit{
				ID:         uuid.NewString(),
				Title:      setTitle(bundle),
				Type:       models.OutfitCoordinatedSet,
				Items:      []*models.Candidate{top, bottom},
				TotalPrice: top.Product.Price + bottom.Product.Price,
				Score:      (top.Score + bottom.Score) / 2,
				Rationale:  setRationale(top, bottom, bundle),
			})
		}
	}
	return outfits, paired
}

// statementPieces emits high-scoring non-dress singles that no coordinated
// set consumed. Used as a fallback when pairs are scarce.
func (a *Assembler) statementPieces(candidates []*models.Candidate, paired map[string]bool, bundle *models.KeywordBundle) []*models.Outfit {
	var outfits []*models.Outfit
	for _, c := range candidates {
		if c.ResolvedCategory == models.CategoryDress {
			continue
		}
		if paired[c.SKU()] || c.Score < a.config.StatementFloor {
			continue
		}
		outfits = append(outfits, &models.Outfit{
			ID:         uuid.NewString(),
			Title:      statementTitle(bundle),
			Type:       models.OutfitStatementPiece,
			Items:      []*models.Candidate{c},
			TotalPrice: c.Product.Price,
			Score:      c.Score,
			Rationale:  statementRationale(c, bundle),
		})
	}
	return outfits
}
