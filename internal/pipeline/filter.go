package pipeline

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/donaldgifford/card-price-catalog/internal/catalog"
	"github.com/donaldgifford/card-price-catalog/internal/metrics"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

const rareSuffix = "_rare"

// Filter keeps the cards of every file in inDir whose rarity is in the
// allow-list and writes them to outDir, renaming *_with_prices files to
// *_rare. Files without a "cards" list are logged and skipped.
func (p *Pipeline) Filter(inDir, outDir string) ([]StageResult, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageFilter).Observe(time.Since(start).Seconds())
	}()

	files, err := catalog.ListJSON(inDir)
	if err != nil {
		return nil, fmt.Errorf("listing priced sets: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, inDir)
	}

	p.log.Info("found priced set files", "count", len(files), "dir", inDir)

	results := make([]StageResult, 0, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		res := StageResult{
			Input:  path,
			Output: filepath.Join(outDir, strings.ReplaceAll(name, pricedSuffix, rareSuffix)),
		}

		in, err := catalog.Load(path)
		if err != nil {
			p.log.Warn("unexpected format, skipping", "file", name, "error", err)
			metrics.StageFilesSkipped.WithLabelValues(StageFilter).Inc()
			res.Output = ""
			res.Skipped = true
			results = append(results, res)
			continue
		}

		kept := p.KeepRare(in.Cards)
		if err := catalog.Save(res.Output, &domain.CardFile{Cards: kept}); err != nil {
			return results, fmt.Errorf("saving filtered set %s: %w", name, err)
		}

		res.CardsIn = len(in.Cards)
		res.CardsOut = len(kept)
		metrics.StageCardsIn.WithLabelValues(StageFilter).Add(float64(res.CardsIn))
		metrics.StageCardsOut.WithLabelValues(StageFilter).Add(float64(res.CardsOut))
		p.log.Info("filtered set", "file", name, "kept", res.CardsOut, "total", res.CardsIn)

		results = append(results, res)
	}

	return results, nil
}

// KeepRare returns the cards whose rarity label is exactly one of the
// configured rarities, in input order. Cards without a rarity never match.
func (p *Pipeline) KeepRare(cards []domain.Card) []domain.Card {
	kept := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		rarity, ok := card[domain.KeyRarity].(string)
		if ok && slices.Contains(p.rarities, rarity) {
			kept = append(kept, card)
		}
	}
	return kept
}
