package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// NormalizedEntropy measures how evenly counts spread over categories:
// 1 means uniform, values near 0 mean a few categories dominate. NaN for
// fewer than two categories or no observations.
func NormalizedEntropy(counts []int) float64 {
	if len(counts) < 2 {
		return math.NaN()
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return math.NaN()
	}

	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	return stat.Entropy(p) / math.Log(float64(len(counts)))
}

// Share returns the fraction of total held by the first k counts, which
// are expected sorted descending.
func Share(counts []int, k, total int) float64 {
	if total == 0 {
		return math.NaN()
	}
	sum := 0
	for i := 0; i < k && i < len(counts); i++ {
		sum += counts[i]
	}
	return float64(sum) / float64(total)
}
