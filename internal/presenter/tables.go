package presenter

import (
	"sort"
	"strconv"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/stats"
)

// ScatterLimit caps the points shipped for a scatter chart
const ScatterLimit = 2000

// body is what a chart recipe produces before the catalog adds its labels
type body struct {
	columns []string
	rows    [][]any
	meta    map[string]any
}

type builder func(t *dataset.Table) (body, error)

// frequency counts col over rows matching pred. k < 0 keeps every value.
// The meta carries how concentrated the counts are: entropy over every
// value, and for a top-k chart the share of present values the k rows hold.
func frequency(pred dataset.Predicate, col stats.Column, label string, k int) builder {
	return func(t *dataset.Table) (body, error) {
		sub := t.Where(pred)
		all := stats.ValueCounts(sub, col)
		counts := make([]int, len(all))
		total := 0
		for i, f := range all {
			counts[i] = f.Count
			total += f.Count
		}
		meta := map[string]any{
			"values":  total,
			"entropy": Cell(stats.NormalizedEntropy(counts)),
		}

		freqs := all
		if k >= 0 {
			var err error
			if freqs, err = stats.TopKByFrequency(sub, col, k); err != nil {
				return body{}, err
			}
			meta["top_share"] = Cell(stats.Share(counts, k, total))
		}

		b := frequencyBody(freqs, label, "count")
		b.meta = meta
		return b, nil
	}
}

func frequencyBody(freqs []stats.Frequency, label, countLabel string) body {
	rows := make([][]any, len(freqs))
	for i, f := range freqs {
		rows[i] = []any{f.Value, f.Count}
	}
	return body{columns: []string{label, countLabel}, rows: rows}
}

// hourly counts rides per hour of day, ordered by hour
func hourly(t *dataset.Table) (body, error) {
	freqs := stats.ValueCounts(t, stats.ColRideHour)
	rows := make([][]any, len(freqs))
	for i, f := range freqs {
		hour, err := strconv.Atoi(f.Value)
		if err != nil {
			return body{}, err
		}
		rows[i] = []any{hour, f.Count}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][0].(int) < rows[j][0].(int)
	})
	return body{columns: []string{"Ride_Hour", "count"}, rows: rows}, nil
}

// grouped reduces aggCol per value of groupCol. Rows with no group value are
// left out of the chart.
func grouped(groupCol, aggCol stats.Column, op stats.Op, label, valueLabel string) builder {
	return func(t *dataset.Table) (body, error) {
		groups, err := stats.GroupReduce(t, groupCol, aggCol, op)
		if err != nil {
			return body{}, err
		}
		return groupBody(groups, label, valueLabel, -1), nil
	}
}

// ranked is grouped sorted by value, largest first, truncated to k
func ranked(groupCol, aggCol stats.Column, op stats.Op, label, valueLabel string, k int) builder {
	return func(t *dataset.Table) (body, error) {
		groups, err := stats.GroupReduce(t, groupCol, aggCol, op)
		if err != nil {
			return body{}, err
		}
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Value > groups[j].Value
		})
		return groupBody(groups, label, valueLabel, k), nil
	}
}

func groupBody(groups []stats.Group, label, valueLabel string, k int) body {
	rows := make([][]any, 0, len(groups))
	for _, g := range groups {
		if g.Key == "" {
			continue
		}
		if k >= 0 && len(rows) == k {
			break
		}
		rows = append(rows, []any{g.Key, Cell(g.Value)})
	}
	return body{columns: []string{label, valueLabel}, rows: rows}
}

// daily builds a day-by-day series over rows matching pred
func daily(pred dataset.Predicate, col stats.Column, op stats.Op, valueLabel string) builder {
	return func(t *dataset.Table) (body, error) {
		points, err := stats.DailySeries(t.Where(pred), col, op)
		if err != nil {
			return body{}, err
		}
		rows := make([][]any, len(points))
		for i, p := range points {
			rows[i] = []any{p.Date.Format(models.DateLayout), Cell(p.Value)}
		}
		return body{columns: []string{"Date", valueLabel}, rows: rows}, nil
	}
}

func weekly(col stats.Column, op stats.Op, valueLabel string) builder {
	return func(t *dataset.Table) (body, error) {
		points, err := stats.WeeklySeries(t, col, op)
		if err != nil {
			return body{}, err
		}
		rows := make([][]any, len(points))
		for i, p := range points {
			rows[i] = []any{p.Label(), Cell(p.Value)}
		}
		return body{columns: []string{"Ride_Week", valueLabel}, rows: rows}, nil
	}
}

// histogram bins the present values of col
func histogram(col stats.Column, bins int) builder {
	return func(t *dataset.Table) (body, error) {
		values := stats.Values(t, dataset.All, col)
		hist := stats.Histogram(values, bins)
		rows := make([][]any, len(hist))
		for i, b := range hist {
			rows[i] = []any{b.Lower, b.Upper, b.Count}
		}
		return body{
			columns: []string{"lower", "upper", "count"},
			rows:    rows,
			meta: map[string]any{
				"bins":   bins,
				"values": len(values),
				"mean":   Cell(stats.Mean(values)),
				"median": Cell(stats.Quantile(values, 0.5)),
				"std":    Cell(stats.StdDev(values)),
			},
		}, nil
	}
}

// boxes draws one five-number summary per group of groupCol
func boxes(groupCol, valueCol stats.Column, label string) builder {
	return func(t *dataset.Table) (body, error) {
		groups, err := stats.GroupSummaries(t, groupCol, valueCol)
		if err != nil {
			return body{}, err
		}
		rows := make([][]any, len(groups))
		for i, g := range groups {
			rows[i] = []any{g.Key, g.Count, Cell(g.Min), Cell(g.Q1), Cell(g.Median), Cell(g.Q3), Cell(g.Max)}
		}
		return body{columns: []string{label, "count", "min", "q1", "median", "q3", "max"}, rows: rows}, nil
	}
}

// scatter pairs xCol with yCol, sampled down to ScatterLimit points. The
// correlation is computed over every pair, not just the sample.
func scatter(xCol, yCol stats.Column, xLabel, yLabel string) builder {
	return func(t *dataset.Table) (body, error) {
		xs, ys := stats.Pairs(t, dataset.All, xCol, yCol)
		sx, sy := stats.Sample(xs, ys, ScatterLimit)
		rows := make([][]any, len(sx))
		for i := range sx {
			rows[i] = []any{sx[i], sy[i]}
		}
		return body{
			columns: []string{xLabel, yLabel},
			rows:    rows,
			meta: map[string]any{
				"pearson_r": Cell(stats.PearsonCorrelation(xs, ys)),
				"points":    len(xs),
				"sampled":   len(sx) < len(xs),
			},
		}, nil
	}
}

func statusBreakdown(t *dataset.Table) (body, error) {
	b, err := frequency(dataset.All, stats.ColBookingStatus, "Booking_Status", -1)(t)
	if err != nil {
		return body{}, err
	}
	b.meta["total"] = stats.CountTotal(t)
	b.meta["success_rate"] = Cell(stats.RateWhere(t, dataset.IsSuccess))
	b.meta["cancel_rate"] = Cell(stats.RateWhere(t, dataset.IsCanceled))
	return b, nil
}
