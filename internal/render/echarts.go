// Package render draws chart tables as standalone ECharts HTML pages.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// DefaultAssetsHost serves the echarts javascript
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// ErrUnsupportedKind is returned for a chart kind with no renderer
var ErrUnsupportedKind = errors.New("unsupported chart kind")

// Options controls page chrome
type Options struct {
	AssetsHost string
	Width      string
	Height     string
	Theme      string
}

func (o Options) withDefaults() Options {
	if o.AssetsHost == "" {
		o.AssetsHost = DefaultAssetsHost
	}
	if o.Width == "" {
		o.Width = "100%"
	}
	if o.Height == "" {
		o.Height = "560px"
	}
	return o
}

// Chart renders one chart table as a full HTML page
func Chart(w io.Writer, table models.ChartTable, o Options) error {
	return Page(w, table.Title, []models.ChartTable{table}, o)
}

// Page renders several chart tables one under another
func Page(w io.Writer, title string, tables []models.ChartTable, o Options) error {
	o = o.withDefaults()

	page := components.NewPage()
	page.SetAssetsHost(o.AssetsHost)
	page.PageTitle = title
	for _, t := range tables {
		c, err := build(t, o)
		if err != nil {
			return err
		}
		page.AddCharts(c)
	}
	return page.Render(w)
}

func build(t models.ChartTable, o Options) (components.Charter, error) {
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  t.Title,
			Theme:      o.Theme,
			Width:      o.Width,
			Height:     o.Height,
			AssetsHost: o.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: t.Title, Subtitle: t.Insight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}

	switch t.Kind {
	case models.ChartBar:
		return barChart(t, global), nil
	case models.ChartHistogram:
		return histogramChart(t, global), nil
	case models.ChartLine:
		return lineChart(t, global), nil
	case models.ChartPie:
		return pieChart(t, global), nil
	case models.ChartBox:
		return boxChart(t, global), nil
	case models.ChartScatter:
		return scatterChart(t, global), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, t.Kind)
}

func axes(t models.ChartTable) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{Name: t.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: t.YLabel}),
	}
}

func barChart(t models.ChartTable, global []charts.GlobalOpts) *charts.Bar {
	x := make([]string, len(t.Rows))
	y := make([]opts.BarData, len(t.Rows))
	for i, row := range t.Rows {
		x[i] = label(row, 0)
		y[i] = opts.BarData{Value: cell(row, 1)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(global, axes(t)...)...)
	bar.SetXAxis(x).AddSeries(seriesName(t, 1), y)
	return bar
}

// histogram rows are (lower, upper, count)
func histogramChart(t models.ChartTable, global []charts.GlobalOpts) *charts.Bar {
	x := make([]string, len(t.Rows))
	y := make([]opts.BarData, len(t.Rows))
	for i, row := range t.Rows {
		x[i] = fmt.Sprintf("%.2f-%.2f", number(row, 0), number(row, 1))
		y[i] = opts.BarData{Value: cell(row, 2)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(global, axes(t)...)...)
	bar.SetXAxis(x).AddSeries("count", y)
	return bar
}

func lineChart(t models.ChartTable, global []charts.GlobalOpts) *charts.Line {
	x := make([]string, len(t.Rows))
	y := make([]opts.LineData, len(t.Rows))
	for i, row := range t.Rows {
		x[i] = label(row, 0)
		y[i] = opts.LineData{Value: cell(row, 1)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(global, axes(t)...)...)
	line.SetXAxis(x).AddSeries(seriesName(t, 1), y)
	return line
}

func pieChart(t models.ChartTable, global []charts.GlobalOpts) *charts.Pie {
	data := make([]opts.PieData, len(t.Rows))
	for i, row := range t.Rows {
		data[i] = opts.PieData{Name: label(row, 0), Value: cell(row, 1)}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(append(global, charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}))...)
	pie.AddSeries(seriesName(t, 0), data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

// box rows are (group, count, min, q1, median, q3, max)
func boxChart(t models.ChartTable, global []charts.GlobalOpts) *charts.BoxPlot {
	x := make([]string, 0, len(t.Rows))
	data := make([]opts.BoxPlotData, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) < 7 || row[2] == nil {
			continue
		}
		x = append(x, label(row, 0))
		data = append(data, opts.BoxPlotData{
			Name:  label(row, 0),
			Value: []float64{number(row, 2), number(row, 3), number(row, 4), number(row, 5), number(row, 6)},
		})
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(append(global, axes(t)...)...)
	box.SetXAxis(x).AddSeries(t.YLabel, data)
	return box
}

func scatterChart(t models.ChartTable, global []charts.GlobalOpts) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(t.Rows))
	for _, row := range t.Rows {
		data = append(data, opts.ScatterData{Value: []interface{}{cell(row, 0), cell(row, 1)}})
	}

	subtitle := t.Insight
	if r, ok := t.Meta["pearson_r"].(float64); ok {
		subtitle = fmt.Sprintf("r = %.4f. %s", r, t.Insight)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(global,
		charts.WithTitleOpts(opts.Title{Title: t.Title, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: t.XLabel, Type: "value", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: t.YLabel, Type: "value"}),
	)...)
	scatter.AddSeries(seriesName(t, 1), data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
	)
	return scatter
}

func seriesName(t models.ChartTable, col int) string {
	if col < len(t.Columns) {
		return t.Columns[col]
	}
	return t.Title
}

func cell(row []any, i int) any {
	if i >= len(row) {
		return nil
	}
	return row[i]
}

func label(row []any, i int) string {
	v := cell(row, i)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func number(row []any, i int) float64 {
	switch v := cell(row, i).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
