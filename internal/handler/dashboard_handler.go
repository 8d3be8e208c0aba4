package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/presenter"
	"github.com/jengzang/rides-dashboard-go/internal/render"
	"github.com/jengzang/rides-dashboard-go/internal/service"
	"github.com/jengzang/rides-dashboard-go/pkg/response"
)

// DashboardHandler handles HTTP requests for the KPI, chart and insight pages
type DashboardHandler struct {
	dashboardService *service.DashboardService
	renderOptions    render.Options
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, renderOptions render.Options) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		renderOptions:    renderOptions,
	}
}

// GetHealth handles GET /health
func (h *DashboardHandler) GetHealth(c *gin.Context) {
	meta := h.dashboardService.Meta()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Rides dashboard API is running",
		"rows":    meta.Rows,
		"range":   meta.Range,
	})
}

// GetMeta handles GET /api/v1/meta
func (h *DashboardHandler) GetMeta(c *gin.Context) {
	response.Success(c, h.dashboardService.Meta())
}

// GetKPIs handles GET /api/v1/kpis
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	var query models.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	report, err := h.dashboardService.KPIs(query)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, report)
}

// GetCharts handles GET /api/v1/charts
func (h *DashboardHandler) GetCharts(c *gin.Context) {
	var query models.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	report, err := h.dashboardService.Charts(query)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, report)
}

// GetChart handles GET /api/v1/charts/:id
func (h *DashboardHandler) GetChart(c *gin.Context) {
	chart, ok := h.chart(c)
	if !ok {
		return
	}
	response.Success(c, chart)
}

// GetChartHTML handles GET /api/v1/charts/:id/html
func (h *DashboardHandler) GetChartHTML(c *gin.Context) {
	chart, ok := h.chart(c)
	if !ok {
		return
	}
	h.writeChart(c, chart)
}

// GetInsights handles GET /api/v1/insights
func (h *DashboardHandler) GetInsights(c *gin.Context) {
	report, err := h.dashboardService.Insights()
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, report)
}

// GetInsightHTML handles GET /api/v1/insights/:id/html
func (h *DashboardHandler) GetInsightHTML(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	chart, err := h.dashboardService.Insight(id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.writeChart(c, chart)
}

// GetBI handles GET /api/v1/bi
func (h *DashboardHandler) GetBI(c *gin.Context) {
	response.Success(c, gin.H{"url": h.dashboardService.BIDashboardURL()})
}

// GetBIPage handles GET /bi
func (h *DashboardHandler) GetBIPage(c *gin.Context) {
	url := h.dashboardService.BIDashboardURL()
	if url == "" {
		response.NotFound(c, "BI dashboard is not configured")
		return
	}

	var buf bytes.Buffer
	if err := render.BIPage(&buf, "Rides BI Dashboard", url); err != nil {
		response.InternalError(c, "Failed to render page", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *DashboardHandler) chart(c *gin.Context) (*models.ChartTable, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}

	var query models.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return nil, false
	}

	chart, err := h.dashboardService.Chart(query, id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return chart, true
}

func (h *DashboardHandler) writeChart(c *gin.Context, chart *models.ChartTable) {
	var buf bytes.Buffer
	if err := render.Chart(&buf, *chart, h.renderOptions); err != nil {
		response.InternalError(c, "Failed to render chart", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid id parameter", err)
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto the response envelope
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dataset.ErrInvalidRange):
		response.BadRequest(c, "Invalid date range", err)
	case errors.Is(err, presenter.ErrUnknownChart):
		response.NotFound(c, "Chart not found", err)
	default:
		response.InternalError(c, "Internal server error", err)
	}
}
