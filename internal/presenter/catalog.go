package presenter

import (
	"errors"
	"fmt"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/stats"
)

// ErrUnknownChart is returned for a chart id outside the catalog
var ErrUnknownChart = errors.New("unknown chart")

// ChartSpec describes one catalog chart: its labels and the recipe that
// fills it from a ride table.
type ChartSpec struct {
	ID      int
	Slug    string
	Title   string
	Kind    models.ChartKind
	XLabel  string
	YLabel  string
	Insight string
	build   builder
}

// Build runs the recipe over t
func (s ChartSpec) Build(t *dataset.Table) (models.ChartTable, error) {
	b, err := s.build(t)
	if err != nil {
		return models.ChartTable{}, fmt.Errorf("chart %d (%s): %w", s.ID, s.Slug, err)
	}
	rows := b.rows
	if rows == nil {
		rows = [][]any{}
	}
	return models.ChartTable{
		ID:      s.ID,
		Slug:    s.Slug,
		Title:   s.Title,
		Kind:    s.Kind,
		XLabel:  s.XLabel,
		YLabel:  s.YLabel,
		Columns: b.columns,
		Rows:    rows,
		Meta:    b.meta,
		Insight: s.Insight,
	}, nil
}

var customerCanceled = dataset.StatusIs(models.StatusCanceledByCustomer)

var edaCatalog = []ChartSpec{
	{
		ID: 1, Slug: "rides-by-vehicle", Title: "Rides by Vehicle Type", Kind: models.ChartBar,
		XLabel: "Vehicle Type", YLabel: "Number of Rides",
		Insight: "Autos and Bikes dominate total rides.",
		build:   frequency(dataset.All, stats.ColVehicleType, "Vehicle_Type", -1),
	},
	{
		ID: 2, Slug: "daily-bookings", Title: "Daily Booking Trend", Kind: models.ChartLine,
		XLabel: "Date", YLabel: "Number of Rides",
		Insight: "Ride demand fluctuates with clear weekday peaks.",
		build:   daily(dataset.All, stats.ColBookingID, stats.OpCount, "count"),
	},
	{
		ID: 3, Slug: "payment-methods", Title: "Payment Method Distribution", Kind: models.ChartPie,
		Insight: "UPI and Cash dominate payment preferences.",
		build:   frequency(dataset.All, stats.ColPaymentMethod, "Payment_Method", -1),
	},
	{
		ID: 4, Slug: "value-by-vehicle", Title: "Booking Value by Vehicle Type", Kind: models.ChartBox,
		XLabel: "Vehicle Type", YLabel: "Booking Value",
		Insight: "Prime Sedan and SUVs have higher fare distribution.",
		build:   boxes(stats.ColVehicleType, stats.ColBookingValue, "Vehicle_Type"),
	},
	{
		ID: 5, Slug: "customer-ratings", Title: "Distribution of Customer Ratings", Kind: models.ChartHistogram,
		XLabel: "Customer Rating", YLabel: "count",
		Insight: "Most customers give ratings between 3.5 and 4.5.",
		build:   histogram(stats.ColCustomerRating, 20),
	},
	{
		ID: 6, Slug: "driver-ratings", Title: "Distribution of Driver Ratings", Kind: models.ChartHistogram,
		XLabel: "Driver Ratings", YLabel: "count",
		Insight: "Driver ratings are skewed towards positive values.",
		build:   histogram(stats.ColDriverRatings, 20),
	},
	{
		ID: 7, Slug: "rides-by-weekday", Title: "Rides by Day of Week", Kind: models.ChartBar,
		XLabel: "Day of Week", YLabel: "count",
		Insight: "Weekdays have higher ride demand compared to weekends.",
		build:   frequency(dataset.All, stats.ColDayOfWeek, "Day_of_Week", -1),
	},
	{
		ID: 8, Slug: "rides-by-hour", Title: "Rides by Hour of Day", Kind: models.ChartBar,
		XLabel: "Ride Hour", YLabel: "count",
		Insight: "Ride demand peaks during morning and evening commute hours.",
		build:   hourly,
	},
	{
		ID: 9, Slug: "ride-distance", Title: "Ride Distance Distribution", Kind: models.ChartHistogram,
		XLabel: "Ride Distance", YLabel: "count",
		Insight: "Majority of rides are short distance trips.",
		build:   histogram(stats.ColRideDistance, 50),
	},
	{
		ID: 10, Slug: "daily-cancellations", Title: "Daily Cancellations Trend", Kind: models.ChartLine,
		XLabel: "Date", YLabel: "count",
		Insight: "Cancellations follow overall demand trends.",
		build:   daily(dataset.IsCanceled, stats.ColBookingID, stats.OpCount, "count"),
	},
	{
		ID: 11, Slug: "top-pickups", Title: "Top 10 Pickup Locations", Kind: models.ChartBar,
		XLabel: "Pickup Location", YLabel: "count",
		Insight: "Few hotspots account for bulk of ride pickups.",
		build:   frequency(dataset.All, stats.ColPickupLocation, "Pickup_Location", 10),
	},
	{
		ID: 12, Slug: "top-drops", Title: "Top 10 Drop Locations", Kind: models.ChartBar,
		XLabel: "Drop Location", YLabel: "count",
		Insight: "Drop locations overlap with key pickup hotspots.",
		build:   frequency(dataset.All, stats.ColDropLocation, "Drop_Location", 10),
	},
	{
		ID: 13, Slug: "daily-value", Title: "Daily Booking Value Trend", Kind: models.ChartLine,
		XLabel: "Date", YLabel: "total_value",
		Insight: "Revenue follows demand cycles with weekday peaks.",
		build:   daily(dataset.All, stats.ColBookingValue, stats.OpSum, "total_value"),
	},
	{
		ID: 14, Slug: "distance-by-vehicle", Title: "Average Ride Distance by Vehicle Type", Kind: models.ChartBar,
		XLabel: "Vehicle Type", YLabel: "Ride Distance",
		Insight: "Cars (Mini, Sedan, SUV) have longer average rides than Autos.",
		build:   grouped(stats.ColVehicleType, stats.ColRideDistance, stats.OpMean, "Vehicle_Type", "Ride_Distance"),
	},
	{
		ID: 15, Slug: "rating-by-vehicle", Title: "Avg Customer Rating by Vehicle Type", Kind: models.ChartBar,
		XLabel: "Vehicle Type", YLabel: "Customer Rating",
		Insight: "Prime Plus and Prime Sedan achieve slightly better ratings.",
		build:   grouped(stats.ColVehicleType, stats.ColCustomerRating, stats.OpMean, "Vehicle_Type", "Customer_Rating"),
	},
	{
		ID: 16, Slug: "customer-cancel-locations", Title: "Top Customer Cancellation Locations", Kind: models.ChartBar,
		XLabel: "Pickup Location", YLabel: "count",
		Insight: "Cancellations cluster around high-demand pickup zones.",
		build:   frequency(customerCanceled, stats.ColPickupLocation, "Pickup_Location", 10),
	},
	{
		ID: 17, Slug: "value-vs-distance", Title: "Booking Value vs Ride Distance", Kind: models.ChartScatter,
		XLabel: "Ride Distance", YLabel: "Booking Value",
		Insight: "Fare generally increases with distance but with variability.",
		build:   scatter(stats.ColRideDistance, stats.ColBookingValue, "Ride_Distance", "Booking_Value"),
	},
	{
		ID: 18, Slug: "incomplete-reasons", Title: "Reasons for Incomplete Rides", Kind: models.ChartBar,
		XLabel: "Reason", YLabel: "count",
		Insight: "Vehicle breakdowns and customer demand are leading causes.",
		build:   frequency(dataset.IsIncomplete, stats.ColIncompleteReason, "Reason", -1),
	},
	{
		ID: 19, Slug: "top-customers", Title: "Top 10 Customers by Ride Count", Kind: models.ChartBar,
		XLabel: "Customer ID", YLabel: "count",
		Insight: "Very few customers are repeat riders.",
		build:   frequency(dataset.All, stats.ColCustomerID, "Customer_ID", 10),
	},
	{
		ID: 20, Slug: "value-by-payment", Title: "Avg Booking Value by Payment Method", Kind: models.ChartBar,
		XLabel: "Payment Method", YLabel: "Booking Value",
		Insight: "UPI and Credit Card transactions have higher booking values.",
		build:   grouped(stats.ColPaymentMethod, stats.ColBookingValue, stats.OpMean, "Payment_Method", "Booking_Value"),
	},
}

// EDACatalog returns the exploratory charts in display order
func EDACatalog() []ChartSpec {
	out := make([]ChartSpec, len(edaCatalog))
	copy(out, edaCatalog)
	return out
}

// EDACharts builds every exploratory chart over t
func EDACharts(t *dataset.Table) ([]models.ChartTable, error) {
	return buildAll(edaCatalog, t)
}

// EDAChart builds a single exploratory chart by id
func EDAChart(t *dataset.Table, id int) (models.ChartTable, error) {
	spec, err := lookup(edaCatalog, id)
	if err != nil {
		return models.ChartTable{}, err
	}
	return spec.Build(t)
}

func buildAll(specs []ChartSpec, t *dataset.Table) ([]models.ChartTable, error) {
	out := make([]models.ChartTable, 0, len(specs))
	for _, spec := range specs {
		chart, err := spec.Build(t)
		if err != nil {
			return nil, err
		}
		out = append(out, chart)
	}
	return out, nil
}

func lookup(specs []ChartSpec, id int) (ChartSpec, error) {
	for _, spec := range specs {
		if spec.ID == id {
			return spec, nil
		}
	}
	return ChartSpec{}, fmt.Errorf("%w: %d", ErrUnknownChart, id)
}
