package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// Quantile calculates the q-th quantile (0 <= q <= 1) with linear
// interpolation between closest ranks. NaN for no values.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(values)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	// position (n-1)*q, same as pandas' default "linear" method
	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// BoxSummary is the five-number summary drawn by a box chart
type BoxSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// FiveNumberSummary returns min, Q1, median, Q3 and max. Every field is NaN
// for no values.
func FiveNumberSummary(values []float64) BoxSummary {
	if len(values) == 0 {
		nan := math.NaN()
		return BoxSummary{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}

	sorted := sortedCopy(values)
	return BoxSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantileSorted(sorted, 0.25),
		Median: quantileSorted(sorted, 0.5),
		Q3:     quantileSorted(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// GroupSummary is the five-number summary of one group
type GroupSummary struct {
	Key string `json:"key"`
	BoxSummary
}

// GroupSummaries partitions rows by groupCol and summarizes the present
// values of valueCol in each group. Groups come out in first-encountered
// order; rows with no group value are left out, and a group whose values
// are all absent keeps a zero count with NaN quantiles.
func GroupSummaries(t *dataset.Table, groupCol, valueCol Column) ([]GroupSummary, error) {
	if err := groupCol.check(); err != nil {
		return nil, err
	}
	if err := valueCol.check(); err != nil {
		return nil, err
	}
	if !valueCol.IsNumeric() {
		return nil, fmt.Errorf("%w: summary of %s", ErrNotNumeric, valueCol)
	}

	index := make(map[string]int)
	var keys []string
	var values [][]float64
	t.Each(func(r models.RideRecord) {
		key, ok := groupCol.Label(r)
		if !ok {
			return
		}
		i, seen := index[key]
		if !seen {
			i = len(keys)
			index[key] = i
			keys = append(keys, key)
			values = append(values, nil)
		}
		if v, ok := valueCol.Value(r); ok {
			values[i] = append(values[i], v)
		}
	})

	out := make([]GroupSummary, len(keys))
	for i, key := range keys {
		out[i] = GroupSummary{Key: key, BoxSummary: FiveNumberSummary(values[i])}
	}
	return out, nil
}

// Bin is one histogram bucket, [Lower, Upper)
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits values into equal-width bins spanning [min, max]; the
// maximum lands in the last bin. No values yield no bins.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	sorted := sortedCopy(values)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram needs every value strictly below the last divider
	last := dividers[bins]
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]Bin, bins)
	for i := range out {
		upper := dividers[i+1]
		if i == bins-1 {
			upper = last
		}
		out[i] = Bin{Lower: dividers[i], Upper: upper, Count: int(counts[i])}
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
