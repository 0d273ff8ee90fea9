package pipeline

import (
	"fmt"
	"time"

	"github.com/donaldgifford/card-price-catalog/internal/catalog"
	"github.com/donaldgifford/card-price-catalog/internal/metrics"
	"github.com/donaldgifford/card-price-catalog/pkg/report"
)

// Analyze loads the combined corpus and builds its market price report.
// Input-format errors (missing file, invalid JSON, no "cards" key) are
// returned as errors; a corpus without any priced card is a valid Report
// without statistics.
func (p *Pipeline) Analyze(corpusPath string, topN int) (*report.Report, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageAnalyze).Observe(time.Since(start).Seconds())
	}()

	corpus, err := catalog.Load(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	p.log.Info("analyzing market prices",
		"cards", len(corpus.Cards),
		"file", corpusPath,
		"categories", p.extractor.Categories(),
		"zero_policy", p.extractor.ZeroPolicy().String(),
	)
	metrics.StageCardsIn.WithLabelValues(StageAnalyze).Add(float64(len(corpus.Cards)))

	r, err := report.Build(p.extractor, corpus.Cards, topN)
	if err != nil {
		return nil, err
	}

	metrics.AnalysisPricedCards.Set(float64(r.Summary.PricedCount))
	metrics.AnalysisMissingCards.Set(float64(r.Summary.MissingCount))
	if r.HasData() {
		metrics.AnalysisMedianPrice.Set(r.Stats.Median)
	} else {
		p.log.Warn("no market price data found", "cards", r.Summary.TotalCards)
	}

	return r, nil
}
