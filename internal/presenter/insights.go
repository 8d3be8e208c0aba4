package presenter

import (
	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/stats"
)

type insightSpec struct {
	ChartSpec
	findings []string
}

// The findings were written against the full 103k-row extract and are
// shown verbatim next to whatever the charts compute.
var insightCatalog = []insightSpec{
	{
		ChartSpec: ChartSpec{
			ID: 1, Slug: "status-breakdown", Title: "Booking Status Breakdown", Kind: models.ChartPie,
			build: statusBreakdown,
		},
		findings: []string{
			"Out of 103,024 rides, only 62% were successful.",
			"38% cancellations (Driver: 18k, Customer: 10k, Driver Not Found: 10k).",
			"High cancellation rate is a critical operational issue.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 2, Slug: "driver-cancel-reasons", Title: "Driver Cancellation Reasons", Kind: models.ChartBar,
			XLabel: "Reason", YLabel: "Count",
			build: frequency(dataset.All, stats.ColCanceledByDriver, "Reason", 5),
		},
		findings: []string{
			"Top reasons: Personal/Car issues (6.5k), Customer issues (5.4k), Health-related (3.6k).",
			"Indicates gaps in driver support & backup fleet availability.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 3, Slug: "customer-cancel-reasons", Title: "Customer Cancellation Reasons", Kind: models.ChartBar,
			XLabel: "Reason", YLabel: "Count",
			build: frequency(dataset.All, stats.ColCanceledByCustomer, "Reason", 5),
		},
		findings: []string{
			"Main reasons: Driver not moving (3.1k), Driver asked to cancel (2.6k), Change of plans (2k).",
			"These highlight driver behavior issues and need for better route compliance.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 4, Slug: "revenue-by-vehicle", Title: "Revenue by Vehicle Type", Kind: models.ChartBar,
			XLabel: "Vehicle Type", YLabel: "Booking Value",
			build: grouped(stats.ColVehicleType, stats.ColBookingValue, stats.OpSum, "Vehicle_Type", "Booking_Value"),
		},
		findings: []string{
			"Prime Sedan, eBike, Auto, Prime Plus dominate total revenue.",
			"Premium vehicles bring higher ticket sizes, while 2/3-wheelers bring high frequency.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 5, Slug: "weekly-revenue", Title: "Weekly Revenue Trends", Kind: models.ChartLine,
			XLabel: "Ride Week", YLabel: "Booking Value",
			build: weekly(stats.ColBookingValue, stats.OpSum, "Booking_Value"),
		},
		findings: []string{
			"Revenue is consistent across weeks (~12.7M per week).",
			"Week 31 shows a dip (seasonality/holidays).",
			"Indicates stable demand with periodic dips.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 6, Slug: "distance-vs-fare", Title: "Distance vs Fare", Kind: models.ChartScatter,
			XLabel: "Ride Distance", YLabel: "Booking Value",
			build: scatter(stats.ColRideDistance, stats.ColBookingValue, "Ride_Distance", "Booking_Value"),
		},
		findings: []string{
			"Correlation is almost zero (0.0005).",
			"Suggests pricing is not distance-driven but dynamic surge/vehicle-based.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 7, Slug: "cancellation-hotspots", Title: "Top Cancellation Hotspots", Kind: models.ChartBar,
			XLabel: "Pickup Location", YLabel: "Count",
			build: frequency(dataset.IsCanceled, stats.ColPickupLocation, "Pickup_Location", 10),
		},
		findings: []string{
			"Vijayanagar, Whitefield, Tumkur Road are top cancellation hotspots.",
			"Indicates mismatch of supply-demand in these areas.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 8, Slug: "driver-ratings", Title: "Driver Ratings Distribution", Kind: models.ChartHistogram,
			XLabel: "Driver Ratings", YLabel: "count",
			build: histogram(stats.ColDriverRatings, 20),
		},
		findings: []string{
			"Ratings are centered around 4.0.",
			"Indicates service quality is consistent but not exceptional.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 9, Slug: "customer-ratings", Title: "Customer Ratings Distribution", Kind: models.ChartHistogram,
			XLabel: "Customer Rating", YLabel: "count",
			build: histogram(stats.ColCustomerRating, 20),
		},
		findings: []string{
			"Customers also average around 4.0.",
			"Balanced ratings indicate both driver & customer expectations need work.",
		},
	},
	{
		ChartSpec: ChartSpec{
			ID: 10, Slug: "high-value-customers", Title: "Top 10 High-Value Customers", Kind: models.ChartBar,
			XLabel: "Customer ID", YLabel: "Booking Value",
			build: ranked(stats.ColCustomerID, stats.ColBookingValue, stats.OpSum, "Customer_ID", "Booking_Value", 10),
		},
		findings: []string{
			"A handful of loyal customers contribute disproportionately to revenue.",
			"Opportunity to launch loyalty programs.",
		},
	},
}

var recommendations = []string{
	"Reduce Driver Cancellations: Incentives, vehicle support, backup fleet.",
	"Curb Customer Cancellations: Improve ETA accuracy, penalize frequent cancellations.",
	"Optimize Hotspots: More driver allocation in Vijayanagar, Whitefield, Tumkur Road.",
	"Pricing Strategy: Consider distance + dynamic pricing to make fares fairer.",
	"Customer Loyalty: Special offers for top customers (retention strategy).",
	"Service Quality: Training for drivers, feedback loop to lift average ratings.",
}

// InsightCatalog returns the insight charts in display order
func InsightCatalog() []ChartSpec {
	out := make([]ChartSpec, len(insightCatalog))
	for i, s := range insightCatalog {
		out[i] = s.ChartSpec
	}
	return out
}

// InsightPanels builds every insight chart over t with its findings
func InsightPanels(t *dataset.Table) ([]models.InsightPanel, error) {
	panels := make([]models.InsightPanel, 0, len(insightCatalog))
	for _, s := range insightCatalog {
		chart, err := s.Build(t)
		if err != nil {
			return nil, err
		}
		panels = append(panels, models.InsightPanel{
			Chart:    chart,
			Findings: append([]string(nil), s.findings...),
		})
	}
	return panels, nil
}

// InsightChart builds a single insight chart by id
func InsightChart(t *dataset.Table, id int) (models.ChartTable, error) {
	spec, err := lookup(InsightCatalog(), id)
	if err != nil {
		return models.ChartTable{}, err
	}
	return spec.Build(t)
}

// Recommendations returns the static action list shown under the insights
func Recommendations() []string {
	return append([]string(nil), recommendations...)
}
