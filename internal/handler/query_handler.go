package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rides-dashboard-go/internal/database"
	"github.com/jengzang/rides-dashboard-go/internal/repository"
	"github.com/jengzang/rides-dashboard-go/internal/service"
	"github.com/jengzang/rides-dashboard-go/pkg/response"
)

// QueryHandler handles HTTP requests for the SQL explorer
type QueryHandler struct {
	queryService *service.QueryService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryService *service.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
	}
}

// ListQueries handles GET /api/v1/queries
func (h *QueryHandler) ListQueries(c *gin.Context) {
	response.Success(c, h.queryService.List())
}

// ExecuteQuery handles GET /api/v1/queries/:id
func (h *QueryHandler) ExecuteQuery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.queryService.Execute(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownQuery):
			response.NotFound(c, "Query not found", err)
		case errors.Is(err, database.ErrQueryStoreUnavailable):
			response.ServiceUnavailable(c, "Query store unavailable", err)
		default:
			response.InternalError(c, "Query failed", err)
		}
		return
	}

	response.Success(c, result)
}
