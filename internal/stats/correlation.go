package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PearsonCorrelation calculates the Pearson correlation coefficient between
// two equally long series. NaN when there are fewer than two pairs or
// either series is constant.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	if Min(x) == Max(x) || Min(y) == Max(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Sample keeps at most max pairs by taking every k-th pair, preserving
// order. The first pair is always kept.
func Sample(x, y []float64, max int) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if max <= 0 || n <= max {
		return append([]float64(nil), x[:n]...), append([]float64(nil), y[:n]...)
	}

	stride := int(math.Ceil(float64(n) / float64(max)))
	sx := make([]float64, 0, max)
	sy := make([]float64, 0, max)
	for i := 0; i < n; i += stride {
		sx = append(sx, x[i])
		sy = append(sy, y[i])
	}
	return sx, sy
}
