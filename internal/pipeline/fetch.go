package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/donaldgifford/card-price-catalog/internal/catalog"
	"github.com/donaldgifford/card-price-catalog/internal/metrics"
	"github.com/donaldgifford/card-price-catalog/internal/tcgapi"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// ErrNoInputFiles is returned when a stage directory has no JSON files.
var ErrNoInputFiles = errors.New("no JSON files found")

const pricedSuffix = "_with_prices"

// Fetch enriches every card set in inDir with the API's full card record and
// writes <set>_with_prices.json files to outDir. Cards without an id and
// cards the API fails to return are logged and left out. Requests are issued
// one at a time. Reaching the daily API quota stops the run.
func (p *Pipeline) Fetch(ctx context.Context, inDir, outDir string) ([]StageResult, error) {
	if p.fetcher == nil {
		return nil, errors.New("fetch stage requires a card fetcher")
	}

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageFetch).Observe(time.Since(start).Seconds())
	}()

	files, err := catalog.ListJSON(inDir)
	if err != nil {
		return nil, fmt.Errorf("listing card sets: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, inDir)
	}

	p.log.Info("found card set files", "count", len(files), "dir", inDir)

	results := make([]StageResult, 0, len(files))
	for _, path := range files {
		res, err := p.fetchSet(ctx, path, outDir)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

func (p *Pipeline) fetchSet(ctx context.Context, path, outDir string) (StageResult, error) {
	set := catalog.Stem(path)
	res := StageResult{
		Input:  path,
		Output: filepath.Join(outDir, set+pricedSuffix+".json"),
	}

	in, err := catalog.LoadSet(path)
	if err != nil {
		return res, fmt.Errorf("loading card set %s: %w", set, err)
	}
	res.CardsIn = len(in.Cards)
	metrics.StageCardsIn.WithLabelValues(StageFetch).Add(float64(len(in.Cards)))

	enriched := make([]domain.Card, 0, len(in.Cards))
	for _, card := range in.Cards {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		id := card.ID()
		if id == "" {
			p.log.Warn("card without id, skipping", "set", set)
			continue
		}

		data, err := p.fetcher.GetCard(ctx, id)
		if err != nil {
			if errors.Is(err, tcgapi.ErrDailyLimitReached) {
				return res, fmt.Errorf("fetching set %s: %w", set, err)
			}
			p.log.Warn("fetching card failed", "set", set, "card_id", id, "error", err)
			continue
		}

		p.log.Debug("fetched card", "set", set, "card_id", id)
		enriched = append(enriched, data)
	}

	if err := catalog.Save(res.Output, &domain.CardFile{Cards: enriched}); err != nil {
		return res, fmt.Errorf("saving enriched set %s: %w", set, err)
	}

	res.CardsOut = len(enriched)
	metrics.StageCardsOut.WithLabelValues(StageFetch).Add(float64(len(enriched)))
	p.log.Info("saved enriched set", "set", set, "cards", len(enriched), "file", res.Output)

	return res, nil
}
