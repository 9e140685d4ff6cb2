// Package recommend runs the outfit recommendation pipeline: keyword
// expansion, product matching, category balancing, outfit assembly, and
// diversification.
package recommend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kode/internal/assembler"
	"github.com/hyperjump/kode/internal/balancer"
	"github.com/hyperjump/kode/internal/diversify"
	"github.com/hyperjump/kode/internal/expander"
	"github.com/hyperjump/kode/internal/matcher"
	"github.com/hyperjump/kode/internal/models"
	"github.com/hyperjump/kode/pkg/utils"
)

// Options holds pipeline-level tunables.
type Options struct {
	DefaultCount  int
	MaxCount      int
	MaxCandidates int
}

// ApplyDefaults sets default values for any zero fields.
func (o *Options) ApplyDefaults() {
	if o.DefaultCount == 0 {
		o.DefaultCount = 3
	}
	if o.MaxCount == 0 {
		o.MaxCount = 10
	}
	if o.MaxCandidates == 0 {
		o.MaxCandidates = 15
	}
}

// Engine orchestrates the five pipeline stages. Each request builds its own
// bundle, candidate list, and outfit pool; nothing is shared across
// requests, so concurrent calls against a read-mostly store need no locks.
type Engine struct {
	expander  *expander.Expander
	matcher   *matcher.Matcher
	balancer  *balancer.Balancer
	assembler *assembler.Assembler
	options   *Options
	logger    *zap.Logger
}

// NewEngine creates an Engine with the given stage components.
func NewEngine(
	exp *expander.Expander,
	m *matcher.Matcher,
	b *balancer.Balancer,
	a *assembler.Assembler,
	opts *Options,
	logger *zap.Logger,
) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	opts.ApplyDefaults()
	return &Engine{
		expander:  exp,
		matcher:   m,
		balancer:  b,
		assembler: a,
		options:   opts,
		logger:    utils.LoggerOrNop(logger),
	}
}

// Recommend turns a free-text message into a ranked outfit list. The only
// error it returns is a failed primary product query; every other stage
// degrades locally. An empty outfit list is a valid result, not an error.
func (e *Engine) Recommend(ctx context.Context, message string, count int) (*models.RecommendResponse, error) {
	startTime := time.Now()
	if count <= 0 {
		count = e.options.DefaultCount
	}
	if count > e.options.MaxCount {
		count = e.options.MaxCount
	}

	bundle := e.expander.Expand(ctx, message)
	e.logger.Debug("bundle expanded",
		zap.Strings("keywords", bundle.Keywords),
		zap.Strings("occasions", bundle.Occasions),
		zap.Bool("fallback", bundle.Fallback))

	candidates, err := e.matcher.Match(ctx, bundle, e.options.MaxCandidates)
	if err != nil {
		return nil, err
	}
	candidates = e.balancer.Balance(ctx, candidates, bundle)
	pool := e.assembler.Assemble(candidates, bundle, count)
	outfits := diversify.Diversify(pool, count)

	e.logger.Info("recommendation complete",
		zap.String("message", utils.Truncate(message, 80)),
		zap.Int("candidates", len(candidates)),
		zap.Int("pool", len(pool)),
		zap.Int("outfits", len(outfits)),
		zap.Duration("elapsed", time.Since(startTime)))

	return &models.RecommendResponse{
		Outfits:   outfits,
		Total:     len(outfits),
		Bundle:    bundle,
		Degraded:  bundle.Fallback,
		QueryTime: time.Since(startTime).Milliseconds(),
		Message:   message,
	}, nil
}
