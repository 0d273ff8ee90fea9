// Package stats computes descriptive statistics over a list of market prices.
package stats

import (
	"errors"
	"math"
	"slices"
)

// ErrNoData is returned by Summarize when there are no prices to describe.
var ErrNoData = errors.New("no market price data")

// Percentiles reported as the lower and upper bound of the price range.
const (
	LowerPercentile = 10
	UpperPercentile = 90
)

// PriceStatistics summarizes one price sample. Every field is derived from the
// same snapshot of the input.
type PriceStatistics struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// Summarize computes mean, median, sample standard deviation, the P10/P90
// bounds and the range of prices. It returns ErrNoData for an empty input
// instead of a zero-valued result. prices is not modified.
func Summarize(prices []float64) (*PriceStatistics, error) {
	if len(prices) == 0 {
		return nil, ErrNoData
	}

	sorted := slices.Clone(prices)
	slices.Sort(sorted)

	mean := Mean(prices)

	return &PriceStatistics{
		Count:      len(sorted),
		Mean:       mean,
		Median:     Median(sorted),
		StdDev:     sampleStdDev(sorted, mean),
		LowerBound: Percentile(sorted, LowerPercentile),
		UpperBound: Percentile(sorted, UpperPercentile),
		Min:        sorted[0],
		Max:        sorted[len(sorted)-1],
	}, nil
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value of an ascending slice, averaging the two
// middle values when the length is even.
func Median(sorted []float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n%2 == 1:
		return sorted[n/2]
	default:
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
}

// Percentile returns the p-th percentile (0-100) of an ascending slice using
// linear interpolation between the closest ranks: rank = p/100 * (n-1).
// This is numpy's default "linear" method.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// sampleStdDev uses the n-1 divisor and reports 0 for a single value.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
