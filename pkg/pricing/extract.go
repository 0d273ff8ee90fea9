// Package pricing selects a single representative market price per card and
// derives the priced/unpriced partition and top-N ranking from it.
package pricing

import (
	"encoding/json"

	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// DefaultCategories is the tcgplayer price category priority order. The first
// category with a usable market value wins.
var DefaultCategories = []string{
	"normal",
	"holofoil",
	"reverseHolofoil",
	"firstEditionHolofoil",
	"firstEditionNormal",
}

// ZeroPolicy controls whether a market value of exactly 0 counts as a price.
type ZeroPolicy int

const (
	// SkipZero treats a zero market value like an absent one and falls through
	// to the next category. This matches the historical reports.
	SkipZero ZeroPolicy = iota
	// KeepZero accepts 0 as a real market price.
	KeepZero
)

// String implements fmt.Stringer.
func (p ZeroPolicy) String() string {
	if p == KeepZero {
		return "keep"
	}
	return "skip"
}

// Extractor picks the market price of a card from its tcgplayer quotes.
// The zero value is not usable; construct with NewExtractor.
type Extractor struct {
	categories []string
	zeroPolicy ZeroPolicy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCategories overrides the category priority order.
func WithCategories(categories ...string) Option {
	return func(e *Extractor) {
		e.categories = append([]string(nil), categories...)
	}
}

// WithZeroPolicy overrides how zero market values are treated.
func WithZeroPolicy(p ZeroPolicy) Option {
	return func(e *Extractor) {
		e.zeroPolicy = p
	}
}

// NewExtractor returns an Extractor using DefaultCategories and SkipZero
// unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		categories: DefaultCategories,
		zeroPolicy: SkipZero,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories returns a copy of the configured priority order.
func (e *Extractor) Categories() []string {
	return append([]string(nil), e.categories...)
}

// ZeroPolicy returns the configured zero handling.
func (e *Extractor) ZeroPolicy() ZeroPolicy {
	return e.zeroPolicy
}

// Extract returns the market price of the first category, in priority order,
// whose quote is an object carrying a usable market value. The card is never
// modified. ok is false when no category qualifies.
func (e *Extractor) Extract(card domain.Card) (price float64, ok bool) {
	prices := card.Prices()
	if prices == nil {
		return 0, false
	}

	for _, category := range e.categories {
		quote, isObj := prices[category].(map[string]any)
		if !isObj {
			continue
		}
		if v, usable := e.market(quote[domain.KeyMarket]); usable {
			return v, true
		}
	}

	return 0, false
}

func (e *Extractor) market(raw any) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case int:
		v = float64(n)
	default:
		return 0, false
	}

	if v == 0 && e.zeroPolicy == SkipZero {
		return 0, false
	}
	return v, true
}
