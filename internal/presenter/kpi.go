// Package presenter turns aggregator output into named KPIs and chart
// tables. It formats and scales; every numeric derivation lives in stats.
package presenter

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/stats"
)

// Placeholder shown for a KPI that has no data behind it
const Placeholder = "n/a"

// KPI keys, in display order
const (
	KeyTotalRides       = "total_rides"
	KeySuccessRate      = "success_rate"
	KeyAvgFare          = "avg_fare"
	KeyCancellationRate = "cancellation_rate"
)

// KPIs maps a summary to the four home page metrics. Rates are scaled to
// percent.
func KPIs(s stats.Summary) []models.KPI {
	total := float64(s.TotalRides)
	return []models.KPI{
		{
			Key:       KeyTotalRides,
			Label:     "Total Rides",
			Value:     &total,
			Display:   humanize.Comma(int64(s.TotalRides)),
			Available: true,
		},
		scalar(KeySuccessRate, "Success Rate", s.SuccessRate*100, "%.2f%%"),
		scalar(KeyAvgFare, "Avg Fare (₹)", s.AvgFare, "%.0f"),
		scalar(KeyCancellationRate, "Cancellation Rate", s.CancellationRate*100, "%.2f%%"),
	}
}

func scalar(key, label string, v float64, format string) models.KPI {
	kpi := models.KPI{Key: key, Label: label, Display: Placeholder}
	if stats.IsInsufficient(v) || math.IsInf(v, 0) {
		return kpi
	}
	kpi.Value = &v
	kpi.Display = fmt.Sprintf(format, v)
	kpi.Available = true
	return kpi
}

// Cell converts a float for a chart row. NaN and infinities become nil so
// the row stays JSON-encodable.
func Cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
