// Package metrics defines Prometheus metrics for card-price-catalog.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cardprice"

// Pokémon TCG API metrics.
var (
	APICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Total Pokémon TCG API requests issued.",
	})

	APIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total failed Pokémon TCG API requests by reason.",
	}, []string{"reason"})

	APICacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_cache_hits_total",
		Help:      "Total card lookups served from the in-process cache.",
	})

	APIRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of Pokémon TCG API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Stage metrics.
var (
	StageCardsIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_cards_in_total",
		Help:      "Cards read by each pipeline stage.",
	}, []string{"stage"})

	StageCardsOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_cards_out_total",
		Help:      "Cards written by each pipeline stage.",
	}, []string{"stage"})

	StageFilesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_files_skipped_total",
		Help:      "Input files skipped because of an unexpected format.",
	}, []string{"stage"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"stage"})
)

// Analysis metrics, set on every analyze run.
var (
	AnalysisPricedCards = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analysis_priced_cards",
		Help:      "Cards with a usable market price in the last analysis.",
	})

	AnalysisMissingCards = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analysis_missing_cards",
		Help:      "Cards without a usable market price in the last analysis.",
	})

	AnalysisMedianPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analysis_median_price_usd",
		Help:      "Median market price of the last analysis.",
	})
)

// WriteTextfile writes every registered metric to path in the text exposition
// format, for pickup by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
