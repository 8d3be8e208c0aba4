package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rides-dashboard-go/internal/database"
	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/repository"
	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

func rides() *dataset.Table {
	at := func(d int) time.Time { return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC) }
	return dataset.NewTable([]models.RideRecord{
		{BookingID: "A", Date: at(1), BookingStatus: models.StatusSuccess, VehicleType: "Auto", BookingValue: models.Some(100)},
		{BookingID: "B", Date: at(2), BookingStatus: models.StatusSuccess, VehicleType: "Bike", BookingValue: models.Some(200)},
		{BookingID: "C", Date: at(3), BookingStatus: models.StatusCanceledByCustomer, VehicleType: "Auto"},
		{BookingID: "D", Date: at(4), BookingStatus: models.StatusCanceledByDriver, VehicleType: "Auto"},
	})
}

func kpi(t *testing.T, report *models.KPIReport, key string) models.KPI {
	t.Helper()
	for _, k := range report.KPIs {
		if k.Key == key {
			return k
		}
	}
	t.Fatalf("kpi %q missing", key)
	return models.KPI{}
}

func TestDashboardKPIs(t *testing.T) {
	t.Parallel()
	svc := NewDashboardService(rides(), "rides.csv", "https://bi.example/view")

	t.Run("defaults to the whole dataset", func(t *testing.T) {
		report, err := svc.KPIs(models.DateRangeQuery{})
		require.NoError(t, err)
		assert.Equal(t, 4, report.Rows)
		assert.Equal(t, models.DateRangeView{Start: "2024-07-01", End: "2024-07-04"}, report.Range)
		assert.Equal(t, "50.00%", kpi(t, report, "success_rate").Display)
		assert.Equal(t, "150", kpi(t, report, "avg_fare").Display)
		assert.Equal(t, "50.00%", kpi(t, report, "cancellation_rate").Display)
	})

	t.Run("filters inclusively", func(t *testing.T) {
		report, err := svc.KPIs(models.DateRangeQuery{Start: "2024-07-02", End: "2024-07-03"})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Rows)
		assert.Equal(t, "200", kpi(t, report, "avg_fare").Display)
	})

	t.Run("empty intersection is insufficient, not zero", func(t *testing.T) {
		report, err := svc.KPIs(models.DateRangeQuery{Start: "2025-01-01", End: "2025-01-31"})
		require.NoError(t, err)
		assert.Equal(t, 0, report.Rows)
		assert.False(t, kpi(t, report, "success_rate").Available)
		assert.Nil(t, kpi(t, report, "avg_fare").Value)
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := svc.KPIs(models.DateRangeQuery{Start: "2024-07-04", End: "2024-07-01"})
		assert.ErrorIs(t, err, dataset.ErrInvalidRange)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := svc.KPIs(models.DateRangeQuery{Start: "07/01/2024"})
		assert.ErrorIs(t, err, dataset.ErrInvalidRange)
	})
}

func TestDashboardCharts(t *testing.T) {
	t.Parallel()
	svc := NewDashboardService(rides(), "rides.csv", "")

	report, err := svc.Charts(models.DateRangeQuery{End: "2024-07-02"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.Len(t, report.Charts, 20)

	chart, err := svc.Chart(models.DateRangeQuery{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"Auto", 3}, chart.Rows[0])

	_, err = svc.Chart(models.DateRangeQuery{}, 99)
	assert.Error(t, err)
}

func TestDashboardInsightsIgnoreFilter(t *testing.T) {
	t.Parallel()
	svc := NewDashboardService(rides(), "rides.csv", "https://bi.example/view")

	report, err := svc.Insights()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Rows)
	assert.Len(t, report.Panels, 10)
	assert.Len(t, report.Recommendations, 6)
	assert.Equal(t, "https://bi.example/view", report.BIDashboardURL)

	chart, err := svc.Insight(4)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Auto", 100.0}, {"Bike", 200.0}}, chart.Rows)
}

func TestDashboardMeta(t *testing.T) {
	t.Parallel()

	meta := NewDashboardService(rides(), "s3://rides/cleaned.csv", "https://bi.example/view").Meta()
	assert.Equal(t, 4, meta.Rows)
	assert.Equal(t, "2024-07-01", meta.Range.Start)
	assert.Equal(t, "s3://rides/cleaned.csv", meta.Source)
	assert.Len(t, meta.Pages, 5)

	empty := NewDashboardService(dataset.NewTable(nil), "", "").Meta()
	assert.Zero(t, empty.Rows)
	assert.Empty(t, empty.Range.Start)
}

func TestQueryService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rides.db")

	db, err := database.Create(ctx, path)
	require.NoError(t, err)
	require.NoError(t, database.NewMigrationManager(db, logger.Discard(), database.RidesMigrations).RunMigrations(ctx))
	_, err = repository.NewRideRepository(db).InsertAll(ctx, rides())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	svc := NewQueryService(repository.NewQueryRepository(path), logger.Discard())
	assert.Len(t, svc.List(), 10)

	res, err := svc.Execute(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{300.0}}, res.Rows)

	_, err = svc.Execute(ctx, 0)
	assert.ErrorIs(t, err, repository.ErrUnknownQuery)
}
