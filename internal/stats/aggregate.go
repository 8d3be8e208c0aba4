package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
)

var (
	// ErrNegativeK is returned by TopKByFrequency for k < 0
	ErrNegativeK = errors.New("k must be non-negative")
	// ErrUnsupportedOp is returned when an operation does not apply to a reduction
	ErrUnsupportedOp = errors.New("unsupported operation")
	// ErrNotNumeric is returned when mean or sum is asked of a categorical column
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrUnknownColumn is returned for a column name that is not a ride attribute
	ErrUnknownColumn = errors.New("unknown column")
)

// Op is a per-group reduction
type Op int

const (
	OpCount Op = iota
	OpMean
	OpSum
)

func (o Op) String() string {
	switch o {
	case OpCount:
		return "count"
	case OpMean:
		return "mean"
	case OpSum:
		return "sum"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Group is one partition produced by GroupReduce
type Group struct {
	Key   string  `json:"key"`   // "" collects rows whose group value is absent
	Rows  int     `json:"rows"`  // All rows in the partition
	Value float64 `json:"value"` // Reduced value; NaN for a mean over no values
}

// Frequency is a distinct value and its occurrence count
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SeriesPoint is one day of a daily series
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// WeekPoint is one ISO week of a weekly series
type WeekPoint struct {
	Year  int     `json:"year"` // ISO year, which differs from the calendar year around New Year
	Week  int     `json:"week"`
	Value float64 `json:"value"`
}

// Label renders the week as 2024-W27
func (p WeekPoint) Label() string {
	return fmt.Sprintf("%d-W%02d", p.Year, p.Week)
}

// CountTotal returns the row count
func CountTotal(t *dataset.Table) int {
	return t.Len()
}

// RateWhere returns the fraction of rows matching pred, NaN for an empty table
func RateWhere(t *dataset.Table, pred dataset.Predicate) float64 {
	matched := 0
	t.Each(func(r models.RideRecord) {
		if pred(r) {
			matched++
		}
	})
	return Ratio(matched, t.Len())
}

// Values returns the present values of col over rows matching pred
func Values(t *dataset.Table, pred dataset.Predicate, col Column) []float64 {
	var out []float64
	t.Each(func(r models.RideRecord) {
		if !pred(r) {
			return
		}
		if v, ok := col.Value(r); ok {
			out = append(out, v)
		}
	})
	return out
}

// MeanWhere returns the mean of col over rows matching pred, skipping
// absent values. NaN when nothing qualifies.
func MeanWhere(t *dataset.Table, pred dataset.Predicate, col Column) float64 {
	return Mean(Values(t, pred, col))
}

// SumWhere returns the sum of col over rows matching pred, skipping absent values
func SumWhere(t *dataset.Table, pred dataset.Predicate, col Column) float64 {
	return Sum(Values(t, pred, col))
}

// Pairs returns aligned (x, y) values over rows where both are present
func Pairs(t *dataset.Table, pred dataset.Predicate, xCol, yCol Column) (xs, ys []float64) {
	t.Each(func(r models.RideRecord) {
		if !pred(r) {
			return
		}
		x, okX := xCol.Value(r)
		y, okY := yCol.Value(r)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	})
	return xs, ys
}

// GroupReduce partitions rows by groupCol and reduces aggCol in each
// partition. Groups come out in first-encountered order. OpCount counts the
// rows where aggCol is present; OpMean and OpSum skip absent values.
func GroupReduce(t *dataset.Table, groupCol, aggCol Column, op Op) ([]Group, error) {
	if err := groupCol.check(); err != nil {
		return nil, err
	}
	if err := aggCol.check(); err != nil {
		return nil, err
	}
	switch op {
	case OpCount:
	case OpMean, OpSum:
		if !aggCol.IsNumeric() {
			return nil, fmt.Errorf("%w: %s of %s", ErrNotNumeric, op, aggCol)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOp, op)
	}

	type acc struct {
		rows   int
		values []float64
		count  int
	}
	index := make(map[string]int)
	var keys []string
	var accs []*acc

	t.Each(func(r models.RideRecord) {
		key, _ := groupCol.Label(r)
		i, ok := index[key]
		if !ok {
			i = len(keys)
			index[key] = i
			keys = append(keys, key)
			accs = append(accs, &acc{})
		}
		a := accs[i]
		a.rows++
		if op == OpCount {
			if _, present := aggCol.Label(r); present {
				a.count++
			}
			return
		}
		if v, present := aggCol.Value(r); present {
			a.values = append(a.values, v)
		}
	})

	out := make([]Group, len(keys))
	for i, key := range keys {
		a := accs[i]
		g := Group{Key: key, Rows: a.rows}
		switch op {
		case OpCount:
			g.Value = float64(a.count)
		case OpMean:
			g.Value = Mean(a.values)
		case OpSum:
			g.Value = Sum(a.values)
		}
		out[i] = g
	}
	return out, nil
}

// TopKByFrequency returns the k most frequent present values of col with
// their counts. Ties keep first-encountered order.
func TopKByFrequency(t *dataset.Table, col Column, k int) ([]Frequency, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeK, k)
	}
	if err := col.check(); err != nil {
		return nil, err
	}

	freqs := ValueCounts(t, col)
	if k < len(freqs) {
		freqs = freqs[:k]
	}
	return freqs, nil
}

// ValueCounts returns every present value of col with its count, most
// frequent first, ties in first-encountered order.
func ValueCounts(t *dataset.Table, col Column) []Frequency {
	index := make(map[string]int)
	var freqs []Frequency
	t.Each(func(r models.RideRecord) {
		v, ok := col.Label(r)
		if !ok {
			return
		}
		i, seen := index[v]
		if !seen {
			i = len(freqs)
			index[v] = i
			freqs = append(freqs, Frequency{Value: v})
		}
		freqs[i].Count++
	})

	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})
	return freqs
}

// DailySeries groups rows by booking day and reduces valueCol with OpCount
// (rows where valueCol is present) or OpSum. One point per day present,
// oldest first; missing days are not filled in.
func DailySeries(t *dataset.Table, valueCol Column, op Op) ([]SeriesPoint, error) {
	buckets, err := series(t, valueCol, op, func(r models.RideRecord) int64 {
		return r.Date.Unix()
	})
	if err != nil {
		return nil, err
	}

	out := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		out[i] = SeriesPoint{Date: time.Unix(b.key, 0).UTC(), Value: b.value}
	}
	return out, nil
}

// WeeklySeries is DailySeries keyed by ISO year and week, so the same week
// number in two years stays two points.
func WeeklySeries(t *dataset.Table, valueCol Column, op Op) ([]WeekPoint, error) {
	buckets, err := series(t, valueCol, op, func(r models.RideRecord) int64 {
		year, week := r.Date.ISOWeek()
		return int64(year)*100 + int64(week)
	})
	if err != nil {
		return nil, err
	}

	out := make([]WeekPoint, len(buckets))
	for i, b := range buckets {
		out[i] = WeekPoint{Year: int(b.key / 100), Week: int(b.key % 100), Value: b.value}
	}
	return out, nil
}

type bucket struct {
	key   int64
	value float64
}

func series(t *dataset.Table, valueCol Column, op Op, keyOf func(models.RideRecord) int64) ([]bucket, error) {
	if err := valueCol.check(); err != nil {
		return nil, err
	}
	switch op {
	case OpCount:
	case OpSum:
		if !valueCol.IsNumeric() {
			return nil, fmt.Errorf("%w: %s of %s", ErrNotNumeric, op, valueCol)
		}
	default:
		return nil, fmt.Errorf("%w: %s over a time series", ErrUnsupportedOp, op)
	}

	totals := make(map[int64]float64)
	t.Each(func(r models.RideRecord) {
		key := keyOf(r)
		if _, seen := totals[key]; !seen {
			totals[key] = 0
		}
		if op == OpCount {
			if _, ok := valueCol.Label(r); ok {
				totals[key]++
			}
			return
		}
		if v, ok := valueCol.Value(r); ok {
			totals[key] += v
		}
	})

	out := make([]bucket, 0, len(totals))
	for k, v := range totals {
		out = append(out, bucket{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out, nil
}

// Summary holds the home page figures for a table
type Summary struct {
	TotalRides       int
	SuccessRate      float64 // Fraction in [0,1], NaN for no rides
	AvgFare          float64 // Mean booking value of successful rides, NaN for none
	CancellationRate float64 // Fraction in [0,1], NaN for no rides
}

// Summarize computes the home page figures
func Summarize(t *dataset.Table) Summary {
	return Summary{
		TotalRides:       CountTotal(t),
		SuccessRate:      RateWhere(t, dataset.IsSuccess),
		AvgFare:          MeanWhere(t, dataset.IsSuccess, ColBookingValue),
		CancellationRate: RateWhere(t, dataset.IsCanceled),
	}
}

// IsInsufficient reports whether v is the no-data sentinel
func IsInsufficient(v float64) bool {
	return math.IsNaN(v)
}
