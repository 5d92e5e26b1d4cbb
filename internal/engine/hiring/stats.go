package hiring

import (
	"math"
	"sort"
)

// Score statistics for a job's applicant pool. All functions are total:
// empty input produces zeroed results, never a panic or an error.

// ScoreSummary aggregates a job's score distribution.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"` // population standard deviation
}

// Summarize computes min/max/mean/median/stddev over scores.
func Summarize(scores []float64) ScoreSummary {
	if len(scores) == 0 {
		return ScoreSummary{}
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, s := range sorted {
		sum += s
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, s := range sorted {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(sorted))

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return ScoreSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Median: median,
		StdDev: math.Sqrt(variance),
	}
}

// PercentileOf returns the percentile of v within scores: the share of
// values strictly below v, times 100.
func PercentileOf(scores []float64, v float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	below := 0
	for _, s := range scores {
		if s < v {
			below++
		}
	}
	return float64(below) / float64(len(scores)) * 100
}

// HistogramBucket is one equal-width range of the score distribution.
// Low is inclusive; High is exclusive except for the last bucket.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram buckets scores into n equal-width ranges between the observed
// min and max. All-equal inputs land in a single-width first bucket.
func Histogram(scores []float64, n int) []HistogramBucket {
	if len(scores) == 0 || n <= 0 {
		return nil
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	width := (hi - lo) / float64(n)
	if width == 0 {
		width = 1
	}

	buckets := make([]HistogramBucket, n)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	for _, s := range scores {
		idx := int((s - lo) / width)
		if idx >= n {
			idx = n - 1 // max value lands in the last bucket
		}
		buckets[idx].Count++
	}
	return buckets
}

// ScoreGap describes a score's distance from the pool leader.
type ScoreGap struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

// GapFromTop computes how far v trails the leading score, absolute and as
// a percentage of the leader. A zero leader yields a zero percentage.
func GapFromTop(scores []float64, v float64) ScoreGap {
	if len(scores) == 0 {
		return ScoreGap{}
	}
	top := scores[0]
	for _, s := range scores {
		if s > top {
			top = s
		}
	}
	gap := top - v
	if gap < 0 {
		gap = 0
	}
	pct := 0.0
	if top > 0 {
		pct = gap / top * 100
	}
	return ScoreGap{Absolute: gap, Percent: pct}
}
