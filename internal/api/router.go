package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rides-dashboard-go/internal/handler"
	"github.com/jengzang/rides-dashboard-go/internal/middleware"
	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

// Deps holds everything the router wires together
type Deps struct {
	Log       *logger.Logger
	Dashboard *handler.DashboardHandler
	Queries   *handler.QueryHandler
	Limiter   *middleware.RateLimiter // nil disables rate limiting
	JWTSecret string
	TailSQL   http.Handler // nil leaves /debug/tailsql/ unmounted
}

// SetupRouter 设置路由
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Log))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", deps.Dashboard.GetHealth)
	r.GET("/bi", deps.Dashboard.GetBIPage)

	if deps.TailSQL != nil {
		r.Any("/debug/tailsql/*any", middleware.RequireToken(deps.JWTSecret), gin.WrapH(deps.TailSQL))
	}

	// API 路由组
	api := r.Group("/api/v1")
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter))
	}
	{
		api.GET("/meta", deps.Dashboard.GetMeta)
		api.GET("/kpis", deps.Dashboard.GetKPIs)
		api.GET("/bi", deps.Dashboard.GetBI)

		charts := api.Group("/charts")
		{
			charts.GET("", deps.Dashboard.GetCharts)
			charts.GET("/:id", deps.Dashboard.GetChart)
			charts.GET("/:id/html", deps.Dashboard.GetChartHTML)
		}

		insights := api.Group("/insights")
		{
			insights.GET("", deps.Dashboard.GetInsights)
			insights.GET("/:id/html", deps.Dashboard.GetInsightHTML)
		}

		queries := api.Group("/queries")
		{
			queries.GET("", deps.Queries.ListQueries)
			queries.GET("/:id", middleware.RequireToken(deps.JWTSecret), deps.Queries.ExecuteQuery)
		}
	}

	return r
}
