package pricing

import (
	"slices"

	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// Summary partitions a corpus into priced and unpriced cards.
// PricedCount+MissingCount always equals TotalCards and len(Prices) equals
// PricedCount.
type Summary struct {
	TotalCards   int       `json:"total_cards"`
	PricedCount  int       `json:"priced_count"`
	MissingCount int       `json:"missing_count"`
	Prices       []float64 `json:"prices"`
}

// RankedCard is one entry of a top-N ranking.
type RankedCard struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Rarity string  `json:"rarity"`
}

// Scan extracts a price from every card in input order. Cards without a usable
// price are counted as missing.
func (e *Extractor) Scan(cards []domain.Card) Summary {
	s := Summary{
		TotalCards: len(cards),
		Prices:     make([]float64, 0, len(cards)),
	}

	for _, card := range cards {
		price, ok := e.Extract(card)
		if !ok {
			s.MissingCount++
			continue
		}
		s.Prices = append(s.Prices, price)
		s.PricedCount++
	}

	return s
}

// TopN returns the n most valuable priced cards, highest price first. Cards
// with equal prices keep their input order. Unpriced cards are left out, so
// the result may be shorter than n.
func (e *Extractor) TopN(cards []domain.Card, n int) []RankedCard {
	if n <= 0 {
		return []RankedCard{}
	}

	ranked := make([]RankedCard, 0, len(cards))
	for _, card := range cards {
		price, ok := e.Extract(card)
		if !ok {
			continue
		}
		ranked = append(ranked, RankedCard{
			Name:   card.Name(),
			Price:  price,
			Rarity: card.Rarity(),
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedCard) int {
		switch {
		case a.Price > b.Price:
			return -1
		case a.Price < b.Price:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
