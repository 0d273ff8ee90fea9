package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/donaldgifford/card-price-catalog/internal/catalog"
	"github.com/donaldgifford/card-price-catalog/internal/metrics"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// Combine merges the cards of every JSON file in inDir, in file name order,
// into outFile. Each card is tagged with source_set, the stem of the file it
// came from. Files without a "cards" list are logged and skipped.
func (p *Pipeline) Combine(inDir, outFile string) ([]StageResult, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageCombine).Observe(time.Since(start).Seconds())
	}()

	files, err := catalog.ListJSON(inDir)
	if err != nil {
		return nil, fmt.Errorf("listing rare sets: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, inDir)
	}

	p.log.Info("combining set files", "count", len(files), "dir", inDir)

	combined := &domain.CardFile{Cards: []domain.Card{}}
	results := make([]StageResult, 0, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		res := StageResult{Input: path, Output: outFile}

		in, err := catalog.Load(path)
		if err != nil {
			p.log.Warn("unexpected format, skipping", "file", name, "error", err)
			metrics.StageFilesSkipped.WithLabelValues(StageCombine).Inc()
			res.Output = ""
			res.Skipped = true
			results = append(results, res)
			continue
		}

		set := catalog.Stem(path)
		for _, card := range in.Cards {
			card[domain.KeySourceSet] = set
			combined.Cards = append(combined.Cards, card)
		}

		res.CardsIn = len(in.Cards)
		res.CardsOut = len(in.Cards)
		metrics.StageCardsIn.WithLabelValues(StageCombine).Add(float64(res.CardsIn))
		p.log.Info("added cards", "file", name, "cards", res.CardsIn)
		results = append(results, res)
	}

	if err := catalog.Save(outFile, combined); err != nil {
		return results, fmt.Errorf("saving combined corpus: %w", err)
	}

	metrics.StageCardsOut.WithLabelValues(StageCombine).Add(float64(len(combined.Cards)))
	p.log.Info("combined corpus written", "cards", len(combined.Cards), "file", outFile)

	return results, nil
}
