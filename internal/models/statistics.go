package models

// KPI represents a single scalar summary shown on the home page.
// Value is nil when there is not enough data to compute it.
type KPI struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Value     *float64 `json:"value"`
	Display   string   `json:"display"`   // Formatted for display, "n/a" when unavailable
	Available bool     `json:"available"` // false distinguishes "no data" from zero
}

// KPIReport represents the home page response
type KPIReport struct {
	Range DateRangeView `json:"range"`
	Rows  int           `json:"rows"`
	KPIs  []KPI         `json:"kpis"`
}

// ChartKind identifies how a chart table is meant to be drawn
type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartLine      ChartKind = "line"
	ChartPie       ChartKind = "pie"
	ChartHistogram ChartKind = "histogram"
	ChartBox       ChartKind = "box"
	ChartScatter   ChartKind = "scatter"
)

// ChartTable represents chart-ready data: named columns and rows of cells.
// Cells are string, int, float64 or nil (insufficient data).
type ChartTable struct {
	ID      int            `json:"id"`
	Slug    string         `json:"slug"`
	Title   string         `json:"title"`
	Kind    ChartKind      `json:"kind"`
	XLabel  string         `json:"x_label,omitempty"`
	YLabel  string         `json:"y_label,omitempty"`
	Columns []string       `json:"columns"`
	Rows    [][]any        `json:"rows"`
	Meta    map[string]any `json:"meta,omitempty"`
	Insight string         `json:"insight,omitempty"`
}

// EDAReport represents the exploratory analysis page response
type EDAReport struct {
	Range  DateRangeView `json:"range"`
	Rows   int           `json:"rows"`
	Charts []ChartTable  `json:"charts"`
}

// InsightPanel pairs an insight chart with its findings
type InsightPanel struct {
	Chart    ChartTable `json:"chart"`
	Findings []string   `json:"findings"`
}

// InsightsReport represents the insights and recommendations page
type InsightsReport struct {
	Rows            int            `json:"rows"`
	Panels          []InsightPanel `json:"panels"`
	Recommendations []string       `json:"recommendations"`
	BIDashboardURL  string         `json:"bi_dashboard_url,omitempty"`
}

// DatasetMeta describes the loaded dataset
type DatasetMeta struct {
	Rows           int           `json:"rows"`
	Range          DateRangeView `json:"range"`
	BIDashboardURL string        `json:"bi_dashboard_url"`
	Pages          []string      `json:"pages"`
	Source         string        `json:"source"`
}
