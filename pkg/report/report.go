// Package report assembles the market price analysis of a card corpus and
// renders it as text.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/donaldgifford/card-price-catalog/pkg/pricing"
	"github.com/donaldgifford/card-price-catalog/pkg/stats"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// NoDataMessage is printed in place of the numeric sections when no card in
// the corpus has a usable market price.
const NoDataMessage = "No market price data found in the cards"

// Report is the structured result of one analysis run. Stats is nil when the
// corpus had no priced cards.
type Report struct {
	Summary pricing.Summary        `json:"summary"`
	Stats   *stats.PriceStatistics `json:"stats"`
	TopN    int                    `json:"top_n"`
	Top     []pricing.RankedCard   `json:"top"`
}

// HasData reports whether statistics could be computed.
func (r *Report) HasData() bool {
	return r.Stats != nil
}

// Build scans cards, summarizes the extracted prices and ranks the topN most
// valuable cards. An empty price list yields a Report without Stats rather
// than an error.
func Build(e *pricing.Extractor, cards []domain.Card, topN int) (*Report, error) {
	summary := e.Scan(cards)

	r := &Report{
		Summary: summary,
		TopN:    topN,
	}

	s, err := stats.Summarize(summary.Prices)
	switch {
	case errors.Is(err, stats.ErrNoData):
		r.Top = []pricing.RankedCard{}
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("summarizing prices: %w", err)
	}

	r.Stats = s
	r.Top = e.TopN(cards, topN)
	return r, nil
}

// Format renders r as the human-readable analysis report.
func Format(r *Report) string {
	var b strings.Builder

	b.WriteString("=== MARKET PRICE ANALYSIS RESULTS ===\n")
	fmt.Fprintf(&b, "Cards analyzed: %d\n", r.Summary.TotalCards)
	fmt.Fprintf(&b, "Cards with market price data: %d\n", r.Summary.PricedCount)
	fmt.Fprintf(&b, "Cards missing market price data: %d\n", r.Summary.MissingCount)

	if !r.HasData() {
		b.WriteString("\n" + NoDataMessage + "\n")
		return b.String()
	}

	s := r.Stats
	fmt.Fprintf(&b, "\nMean market price: %s\n", currency(s.Mean))
	fmt.Fprintf(&b, "Median market price: %s\n", currency(s.Median))
	fmt.Fprintf(&b, "Standard deviation: %s\n", currency(s.StdDev))

	fmt.Fprintf(&b, "\nLower bound (%dth percentile): %s\n", stats.LowerPercentile, currency(s.LowerBound))
	fmt.Fprintf(&b, "Upper bound (%dth percentile): %s\n", stats.UpperPercentile, currency(s.UpperBound))

	fmt.Fprintf(&b, "\nMarket price range: %s - %s\n", currency(s.Min), currency(s.Max))

	fmt.Fprintf(&b, "\nTop %d most valuable cards (by market price):\n", r.TopN)
	for i, c := range r.Top {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, c.Name, c.Rarity, currency(c.Price))
	}

	return b.String()
}

func currency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
