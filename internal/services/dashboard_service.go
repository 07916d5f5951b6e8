package services

import (
	"context"

	resp "voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/utils"
)

type DashboardServiceInterface interface {
	BuildStats(ctx context.Context) (*resp.DashboardStats, error)
}

// DashboardService joins persisted totals with the in-process generation
// counters.
type DashboardService struct {
	dashboardRepo repositories.DashboardRepository
	metrics       *GenerationMetrics
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository, metrics *GenerationMetrics) DashboardServiceInterface {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		metrics:       metrics,
	}
}

func (s *DashboardService) BuildStats(ctx context.Context) (*resp.DashboardStats, error) {
	accounts, err := s.dashboardRepo.CountTotalAccounts(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	activities, err := s.dashboardRepo.CountTotalActivities(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	itineraries, err := s.dashboardRepo.CountTotalItineraries(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &resp.DashboardStats{
		TotalAccounts:    accounts,
		TotalActivities:  activities,
		TotalItineraries: itineraries,
		Generation:       s.metrics.Snapshot(),
	}, nil
}
