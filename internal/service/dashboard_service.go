package service

import (
	"fmt"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/presenter"
	"github.com/jengzang/rides-dashboard-go/internal/stats"
)

// Pages lists the dashboard sections in navigation order
var Pages = []string{
	"Home",
	"Exploratory Data Analysis",
	"SQL Queries",
	"Power BI Dashboard",
	"Insights & Recommendations",
}

// DashboardService answers every page that reads the in-memory ride table.
// The table is shared read-only; each call filters into a fresh copy.
type DashboardService struct {
	table  *dataset.Table
	source string
	biURL  string
}

// NewDashboardService creates a dashboard service over a loaded table
func NewDashboardService(table *dataset.Table, source, biURL string) *DashboardService {
	return &DashboardService{
		table:  table,
		source: source,
		biURL:  biURL,
	}
}

// Meta describes the loaded dataset
func (s *DashboardService) Meta() models.DatasetMeta {
	meta := models.DatasetMeta{
		Rows:           s.table.Len(),
		BIDashboardURL: s.biURL,
		Pages:          append([]string(nil), Pages...),
		Source:         s.source,
	}
	if min, max, ok := s.table.DateBounds(); ok {
		meta.Range = models.DateRange{Start: min, End: max}.View()
	}
	return meta
}

// BIDashboardURL returns the embedded dashboard location
func (s *DashboardService) BIDashboardURL() string {
	return s.biURL
}

// KPIs computes the home page metrics for a date range
func (s *DashboardService) KPIs(q models.DateRangeQuery) (*models.KPIReport, error) {
	filtered, r, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	return &models.KPIReport{
		Range: r.View(),
		Rows:  filtered.Len(),
		KPIs:  presenter.KPIs(stats.Summarize(filtered)),
	}, nil
}

// Charts builds all exploratory charts for a date range
func (s *DashboardService) Charts(q models.DateRangeQuery) (*models.EDAReport, error) {
	filtered, r, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	charts, err := presenter.EDACharts(filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to build charts: %w", err)
	}
	return &models.EDAReport{
		Range:  r.View(),
		Rows:   filtered.Len(),
		Charts: charts,
	}, nil
}

// Chart builds one exploratory chart for a date range
func (s *DashboardService) Chart(q models.DateRangeQuery, id int) (*models.ChartTable, error) {
	filtered, _, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	chart, err := presenter.EDAChart(filtered, id)
	if err != nil {
		return nil, err
	}
	return &chart, nil
}

// Insights builds the insight panels. They always cover the whole dataset
// and ignore the date filter.
func (s *DashboardService) Insights() (*models.InsightsReport, error) {
	panels, err := presenter.InsightPanels(s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to build insights: %w", err)
	}

	return &models.InsightsReport{
		Rows:            s.table.Len(),
		Panels:          panels,
		Recommendations: presenter.Recommendations(),
		BIDashboardURL:  s.biURL,
	}, nil
}

// Insight builds one insight chart over the whole dataset
func (s *DashboardService) Insight(id int) (*models.ChartTable, error) {
	chart, err := presenter.InsightChart(s.table, id)
	if err != nil {
		return nil, err
	}
	return &chart, nil
}

func (s *DashboardService) filter(q models.DateRangeQuery) (*dataset.Table, models.DateRange, error) {
	r, err := dataset.ResolveRange(s.table, q)
	if err != nil {
		return nil, models.DateRange{}, err
	}

	filtered, err := dataset.FilterRange(s.table, r.Start, r.End)
	if err != nil {
		return nil, models.DateRange{}, err
	}
	return filtered, r, nil
}
