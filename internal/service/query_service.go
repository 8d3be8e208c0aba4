package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/repository"
	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

// QueryService handles the canned SQL explorer
type QueryService struct {
	queryRepo *repository.QueryRepository
	log       *logger.Logger
}

// NewQueryService creates a new query service
func NewQueryService(queryRepo *repository.QueryRepository, log *logger.Logger) *QueryService {
	return &QueryService{
		queryRepo: queryRepo,
		log:       log,
	}
}

// List returns the canned queries
func (s *QueryService) List() []models.CannedQuery {
	return s.queryRepo.List()
}

// Execute runs a canned query by id
func (s *QueryService) Execute(ctx context.Context, id int) (*models.QueryResult, error) {
	start := time.Now()
	result, err := s.queryRepo.Execute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query %d: %w", id, err)
	}

	s.log.WithContext(ctx).LogQuery(id, result.RowCount, time.Since(start))
	return result, nil
}
