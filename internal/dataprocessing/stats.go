package dataprocessing

import (
	"math"

	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// Summarize computes min, max, mean and the sample standard deviation of the
// daily totals. Missing statistics are nil, never zero or NaN: an empty series
// has no extrema or mean, and fewer than two points have no deviation.
func Summarize(series domain.DailySeries) domain.SummaryStats {
	return summarizeValues(series.Values())
}

func summarizeValues(values []float64) domain.SummaryStats {
	stats := domain.SummaryStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	var total domain.KahanSum
	lo, hi := values[0], values[0]
	for _, v := range values {
		total.Add(v)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	stats.Total = total.Sum()
	stats.Min = float64Ptr(lo)
	stats.Max = float64Ptr(hi)

	n := float64(len(values))
	mean := stats.Total / n
	stats.Mean = float64Ptr(mean)

	if len(values) < 2 {
		return stats
	}
	var ss domain.KahanSum
	for _, v := range values {
		d := v - mean
		ss.Add(d * d)
	}
	stats.StdDev = float64Ptr(math.Sqrt(ss.Sum() / (n - 1)))
	return stats
}

func float64Ptr(v float64) *float64 {
	return &v
}
