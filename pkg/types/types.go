// Package domain defines the core card catalog types shared by every
// pipeline stage.
package domain

// UnknownValue is reported for a card's name or rarity when the field is
// absent or not a string.
const UnknownValue = "Unknown"

// Well-known card record keys.
const (
	KeyID        = "id"
	KeyName      = "name"
	KeyRarity    = "rarity"
	KeyTCGPlayer = "tcgplayer"
	KeyPrices    = "prices"
	KeyMarket    = "market"
	KeySourceSet = "source_set"
)

// Card is one card record as returned by the Pokémon TCG API. It is kept as a
// generic JSON object so fields this tool does not know about pass through
// fetch, filter and combine unchanged.
type Card map[string]any

// CardFile is the {"cards": [...]} envelope every stage reads and writes.
type CardFile struct {
	Cards []Card `json:"cards"`
}

// ID returns the card's API identifier, or "" when absent.
func (c Card) ID() string {
	return c.stringField(KeyID, "")
}

// Name returns the display name, defaulting to UnknownValue.
func (c Card) Name() string {
	return c.stringField(KeyName, UnknownValue)
}

// Rarity returns the rarity tier label, defaulting to UnknownValue.
func (c Card) Rarity() string {
	return c.stringField(KeyRarity, UnknownValue)
}

// SourceSet returns the set file stem the combine stage tagged this card with.
func (c Card) SourceSet() string {
	return c.stringField(KeySourceSet, "")
}

// Prices returns the tcgplayer.prices mapping, or nil when either level is
// missing or not an object.
func (c Card) Prices() map[string]any {
	tp, ok := c[KeyTCGPlayer].(map[string]any)
	if !ok {
		return nil
	}
	prices, ok := tp[KeyPrices].(map[string]any)
	if !ok {
		return nil
	}
	return prices
}

func (c Card) stringField(key, fallback string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return fallback
}
