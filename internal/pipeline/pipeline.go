// Package pipeline runs the four catalog stages: fetch prices, filter by
// rarity, combine sets, and analyze market prices.
package pipeline

import (
	"log/slog"
	"slices"

	"github.com/donaldgifford/card-price-catalog/internal/tcgapi"
	"github.com/donaldgifford/card-price-catalog/pkg/pricing"
)

// Stage names used in logs and metric labels.
const (
	StageFetch   = "fetch"
	StageFilter  = "filter"
	StageCombine = "combine"
	StageAnalyze = "analyze"
)

// StageResult describes what one stage did with one input file.
type StageResult struct {
	Input    string `json:"input"`
	Output   string `json:"output,omitempty"`
	CardsIn  int    `json:"cards_in"`
	CardsOut int    `json:"cards_out"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// Pipeline holds the collaborators and settings shared by the stages.
type Pipeline struct {
	fetcher   tcgapi.CardFetcher
	extractor *pricing.Extractor
	rarities  []string
	log       *slog.Logger
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithFetcher sets the card lookup used by Fetch.
func WithFetcher(f tcgapi.CardFetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithExtractor sets the price extractor used by Analyze.
func WithExtractor(e *pricing.Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithRarities sets the rarity allow-list used by Filter.
func WithRarities(rarities ...string) Option {
	return func(p *Pipeline) {
		p.rarities = slices.Clone(rarities)
	}
}

// New creates a Pipeline. Without options it filters on no rarities, has no
// fetcher and analyzes with the default extractor.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: pricing.NewExtractor(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
