package pricing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/card-price-catalog/pkg/pricing"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

func card(t *testing.T, raw string) domain.Card {
	t.Helper()
	var c domain.Card
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		card      string
		opts      []pricing.Option
		wantPrice float64
		wantOK    bool
	}{
		{
			name:   "no tcgplayer field",
			card:   `{"name": "Pikachu"}`,
			wantOK: false,
		},
		{
			name:   "tcgplayer without prices",
			card:   `{"tcgplayer": {"url": "https://prices.pokemontcg.io/tcgplayer/sv1-1"}}`,
			wantOK: false,
		},
		{
			name:   "prices is null",
			card:   `{"tcgplayer": {"prices": null}}`,
			wantOK: false,
		},
		{
			name:      "normal wins over holofoil",
			card:      `{"tcgplayer": {"prices": {"holofoil": {"market": 10}, "normal": {"market": 5}}}}`,
			wantPrice: 5,
			wantOK:    true,
		},
		{
			name:      "null category is skipped",
			card:      `{"tcgplayer": {"prices": {"normal": null, "holofoil": {"market": 12.5}}}}`,
			wantPrice: 12.5,
			wantOK:    true,
		},
		{
			name:      "null market falls through",
			card:      `{"tcgplayer": {"prices": {"normal": {"low": 1, "market": null}, "reverseHolofoil": {"market": 3.25}}}}`,
			wantPrice: 3.25,
			wantOK:    true,
		},
		{
			name:   "zero market is treated as missing",
			card:   `{"tcgplayer": {"prices": {"normal": {"market": 0}}}}`,
			wantOK: false,
		},
		{
			name:      "zero market falls through to next category",
			card:      `{"tcgplayer": {"prices": {"normal": {"market": 0}, "firstEditionNormal": {"market": 99}}}}`,
			wantPrice: 99,
			wantOK:    true,
		},
		{
			name:      "zero market kept when policy allows",
			card:      `{"tcgplayer": {"prices": {"normal": {"market": 0}, "holofoil": {"market": 8}}}}`,
			opts:      []pricing.Option{pricing.WithZeroPolicy(pricing.KeepZero)},
			wantPrice: 0,
			wantOK:    true,
		},
		{
			name:   "unknown category ignored",
			card:   `{"tcgplayer": {"prices": {"1stEditionHolofoil": {"market": 400}}}}`,
			wantOK: false,
		},
		{
			name:   "non-numeric market ignored",
			card:   `{"tcgplayer": {"prices": {"normal": {"market": "12.00"}}}}`,
			wantOK: false,
		},
		{
			name:      "custom category order",
			card:      `{"tcgplayer": {"prices": {"normal": {"market": 5}, "holofoil": {"market": 10}}}}`,
			opts:      []pricing.Option{pricing.WithCategories("holofoil", "normal")},
			wantPrice: 10,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := pricing.NewExtractor(tt.opts...)
			price, ok := e.Extract(card(t, tt.card))

			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantPrice, price, 1e-9)
		})
	}
}

func TestExtractor_ExtractDoesNotMutate(t *testing.T) {
	t.Parallel()

	c := card(t, `{"name": "Mew", "tcgplayer": {"prices": {"holofoil": {"market": 42}}}}`)
	before, err := json.Marshal(c)
	require.NoError(t, err)

	_, _ = pricing.NewExtractor().Extract(c)

	after, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestExtractor_Defaults(t *testing.T) {
	t.Parallel()

	e := pricing.NewExtractor()
	assert.Equal(t, pricing.DefaultCategories, e.Categories())
	assert.Equal(t, pricing.SkipZero, e.ZeroPolicy())
	assert.Equal(t, "skip", e.ZeroPolicy().String())
	assert.Equal(t, "keep", pricing.KeepZero.String())
}

func TestWithCategories_Copies(t *testing.T) {
	t.Parallel()

	order := []string{"holofoil", "normal"}
	e := pricing.NewExtractor(pricing.WithCategories(order...))
	order[0] = "normal"

	assert.Equal(t, []string{"holofoil", "normal"}, e.Categories())
}
