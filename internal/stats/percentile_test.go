package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
)

func TestQuantile(t *testing.T) {
	t.Parallel()

	values := []float64{4, 1, 3, 2}
	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 4.0, Quantile(values, 1))
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-12)
	assert.InDelta(t, 1.75, Quantile(values, 0.25), 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "input must not be reordered")
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestFiveNumberSummary(t *testing.T) {
	t.Parallel()

	box := FiveNumberSummary([]float64{5, 1, 9, 3, 7})
	assert.Equal(t, BoxSummary{Count: 5, Min: 1, Q1: 3, Median: 5, Q3: 7, Max: 9}, box)

	empty := FiveNumberSummary(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Median))
}

func TestGroupSummaries(t *testing.T) {
	t.Parallel()
	table := dataset.NewTable([]models.RideRecord{
		ride("A", 1, models.StatusSuccess, "Auto", models.Some(100)),
		ride("B", 1, models.StatusSuccess, "Bike", models.Some(50)),
		ride("C", 2, models.StatusSuccess, "Auto", models.Some(300)),
		ride("D", 2, models.StatusCanceledByDriver, "eBike", models.OptionalFloat{}),
		ride("E", 3, models.StatusSuccess, "", models.Some(999)),
		ride("F", 4, models.StatusSuccess, "Auto", models.Some(200)),
	})

	groups, err := GroupSummaries(table, ColVehicleType, ColBookingValue)
	require.NoError(t, err)
	require.Len(t, groups, 3, "rows with no vehicle type are left out")

	assert.Equal(t, "Auto", groups[0].Key)
	assert.Equal(t, BoxSummary{Count: 3, Min: 100, Q1: 150, Median: 200, Q3: 250, Max: 300}, groups[0].BoxSummary)
	assert.Equal(t, "Bike", groups[1].Key)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, 50.0, groups[1].Median)

	assert.Equal(t, "eBike", groups[2].Key)
	assert.Zero(t, groups[2].Count)
	assert.True(t, math.IsNaN(groups[2].Median))

	_, err = GroupSummaries(table, ColVehicleType, ColPaymentMethod)
	assert.ErrorIs(t, err, ErrNotNumeric)
	_, err = GroupSummaries(table, Column("fare"), ColBookingValue)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	empty, err := GroupSummaries(dataset.NewTable(nil), ColVehicleType, ColBookingValue)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHistogram(t *testing.T) {
	t.Parallel()

	t.Run("equal width bins include the maximum", func(t *testing.T) {
		t.Parallel()
		bins := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
		require.Len(t, bins, 5)

		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, 10, total)
		assert.Equal(t, 0.0, bins[0].Lower)
		assert.Equal(t, 10.0, bins[4].Upper)
		assert.Equal(t, 2, bins[0].Count) // 0, 1
		assert.Equal(t, 2, bins[4].Count) // 8, 10
	})

	t.Run("constant input collapses to one bin", func(t *testing.T) {
		t.Parallel()
		bins := Histogram([]float64{4, 4, 4}, 20)
		assert.Equal(t, []Bin{{Lower: 4, Upper: 4, Count: 3}}, bins)
	})

	t.Run("no values", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Histogram(nil, 10))
	})
}

func TestPearsonCorrelation(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.True(t, math.IsNaN(PearsonCorrelation([]float64{1}, []float64{1})))
	assert.True(t, math.IsNaN(PearsonCorrelation([]float64{1, 2}, []float64{5, 5})))
}

func TestSample(t *testing.T) {
	t.Parallel()

	x := make([]float64, 10)
	y := make([]float64, 10)
	for i := range x {
		x[i], y[i] = float64(i), float64(i*i)
	}

	sx, sy := Sample(x, y, 4)
	assert.Equal(t, []float64{0, 3, 6, 9}, sx)
	assert.Equal(t, []float64{0, 9, 36, 81}, sy)

	sx, _ = Sample(x, y, 100)
	assert.Len(t, sx, 10)
}

func TestNormalizedEntropy(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, NormalizedEntropy([]int{5, 5, 5, 5}), 1e-12)
	assert.Less(t, NormalizedEntropy([]int{97, 1, 1, 1}), 0.5)
	assert.True(t, math.IsNaN(NormalizedEntropy([]int{3})))
	assert.InDelta(t, 0.75, Share([]int{5, 4, 1}, 2, 12), 1e-12)
}
