// Package stats provides order-statistic helpers (median, quartiles, MAD,
// percentiles) used by the market aggregation pipeline. All functions copy
// their input before sorting and return 0 for empty input.
package stats

import (
	"math"
	"sort"
)

// Median returns the median of xs, or 0 for empty input.
// For even-length input it returns the mean of the two middle elements.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := sortedCopy(xs)
	return medianSorted(s)
}

// Quartiles returns Q1 and Q3 of xs using the exclusive-median method:
// the input is sorted and split at n/2; for odd n the middle element
// belongs to neither half. Returns (0, 0) for empty input.
func Quartiles(xs []float64) (q1, q3 float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	s := sortedCopy(xs)
	n := len(s)
	h := n / 2
	lower := s[:h]
	upper := s[h:]
	if n%2 == 1 {
		upper = s[h+1:]
	}
	return medianSorted(lower), medianSorted(upper)
}

// MAD returns the median absolute deviation of xs from center,
// or 0 for empty input.
func MAD(xs []float64, center float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - center)
	}
	sort.Float64s(devs)
	return medianSorted(devs)
}

// Percentile returns the p-th percentile of xs (p in 0..1) using linear
// interpolation between order statistics at fractional rank (n-1)*p.
// Percentile(xs, 0) is the minimum and Percentile(xs, 1) the maximum.
// Returns 0 for empty input; p is clamped to [0, 1].
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	s := sortedCopy(xs)
	if len(s) == 1 {
		return s[0]
	}
	idx := float64(len(s)-1) * p
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(s) {
		return s[lower]
	}
	frac := idx - float64(lower)
	return s[lower]*(1-frac) + s[upper]*frac
}

// medianSorted returns the median of an already-sorted slice (0 if empty).
func medianSorted(s []float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func sortedCopy(xs []float64) []float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	return s
}
