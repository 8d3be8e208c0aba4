package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

func TestChartKinds(t *testing.T) {
	t.Parallel()

	tables := []models.ChartTable{
		{Title: "Rides by Vehicle Type", Kind: models.ChartBar, Columns: []string{"Vehicle_Type", "count"},
			Rows: [][]any{{"Auto", 3}, {"Bike", 1}}},
		{Title: "Daily Booking Trend", Kind: models.ChartLine, Columns: []string{"Date", "count"},
			Rows: [][]any{{"2024-07-01", 2.0}, {"2024-07-02", nil}}},
		{Title: "Payment Method Distribution", Kind: models.ChartPie, Columns: []string{"Payment_Method", "count"},
			Rows: [][]any{{"UPI", 4}, {"Cash", 2}}},
		{Title: "Ride Distance Distribution", Kind: models.ChartHistogram, Columns: []string{"lower", "upper", "count"},
			Rows: [][]any{{0.0, 2.5, 3}, {2.5, 5.0, 1}}},
		{Title: "Booking Value by Vehicle Type", Kind: models.ChartBox,
			Columns: []string{"Vehicle_Type", "count", "min", "q1", "median", "q3", "max"},
			Rows:    [][]any{{"Auto", 5, 1.0, 3.0, 5.0, 7.0, 9.0}, {"eBike", 0, nil, nil, nil, nil, nil}}},
		{Title: "Booking Value vs Ride Distance", Kind: models.ChartScatter, Columns: []string{"Ride_Distance", "Booking_Value"},
			Rows: [][]any{{5.0, 100.0}, {20.0, 300.0}}, Meta: map[string]any{"pearson_r": 1.0}},
	}

	for _, table := range tables {
		table := table
		t.Run(string(table.Kind), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, Chart(&buf, table, Options{}))
			html := buf.String()
			assert.Contains(t, html, table.Title)
			assert.Contains(t, html, DefaultAssetsHost)
		})
	}
}

func TestPageWithSeveralCharts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Page(&buf, "Insights", []models.ChartTable{
		{Title: "Revenue by Vehicle Type", Kind: models.ChartBar, Rows: [][]any{{"Auto", 100.0}}},
		{Title: "Weekly Revenue Trends", Kind: models.ChartLine, Rows: [][]any{{27, 100.0}}},
	}, Options{AssetsHost: "/assets/"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Revenue by Vehicle Type")
	assert.Contains(t, buf.String(), "Weekly Revenue Trends")
	assert.Contains(t, buf.String(), "/assets/")
}

func TestUnsupportedKind(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Chart(&buf, models.ChartTable{Title: "x", Kind: "radar"}, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestBIPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, BIPage(&buf, "Rides BI", "https://app.powerbi.com/view?r=abc"))
	assert.Contains(t, buf.String(), `<iframe title="Rides BI"`)
	assert.Contains(t, buf.String(), `src="https://app.powerbi.com/view?r=abc"`)
}
