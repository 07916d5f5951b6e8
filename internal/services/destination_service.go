package services

import (
	"context"
	"strings"

	"voyago/internal/models/db_models"
	"voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/utils"
)

type DestinationServiceInterface interface {
	ListDestinations(ctx context.Context, page, pageSize int) ([]response_models.DestinationResponse, error)
	SearchDestinations(ctx context.Context, keyword string, page, pageSize int) ([]response_models.DestinationResponse, error)
}

type DestinationService struct {
	destinationRepo repositories.DestinationRepository
}

func NewDestinationService(destinationRepo repositories.DestinationRepository) DestinationServiceInterface {
	return &DestinationService{
		destinationRepo: destinationRepo,
	}
}

func (s *DestinationService) ListDestinations(ctx context.Context, page, pageSize int) ([]response_models.DestinationResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	destinations, err := s.destinationRepo.GetListOfDestinations(ctx, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toDestinationResponses(destinations), nil
}

func (s *DestinationService) SearchDestinations(ctx context.Context, keyword string, page, pageSize int) ([]response_models.DestinationResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, utils.ErrInvalidInput
	}
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	destinations, err := s.destinationRepo.SearchByKeyword(ctx, keyword, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(destinations) == 0 {
		return nil, utils.ErrDestinationNotFound
	}
	return toDestinationResponses(destinations), nil
}

func toDestinationResponses(destinations []db_models.Destination) []response_models.DestinationResponse {
	out := make([]response_models.DestinationResponse, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, response_models.DestinationResponse{
			ID:       d.ID.String(),
			Name:     d.Name,
			Region:   d.Region,
			Timezone: d.Timezone,
		})
	}
	return out
}
