package services

import (
	"context"

	"github.com/google/uuid"

	"voyago/internal/models/db_models"
	"voyago/internal/repositories"
	"voyago/pkg/utils"
)

type FeedbackServiceInterface interface {
	AddFeedback(ctx context.Context, userID uuid.UUID, itineraryID, comment string, rating int) error
	GetFeedbackForItinerary(ctx context.Context, itineraryID string, page, pageSize int) ([]db_models.Feedback, error)
}

type FeedbackService struct {
	feedbackRepo  repositories.FeedbackRepositoryInterface
	itineraryRepo repositories.ItineraryRepository
}

func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	itineraryRepo repositories.ItineraryRepository,
) FeedbackServiceInterface {
	return &FeedbackService{
		feedbackRepo:  feedbackRepo,
		itineraryRepo: itineraryRepo,
	}
}

func (s *FeedbackService) AddFeedback(ctx context.Context, userID uuid.UUID, itineraryID, comment string, rating int) error {
	if rating < 1 || rating > 5 || comment == "" {
		return utils.ErrInvalidInput
	}

	itineraryUUID, err := uuid.Parse(itineraryID)
	if err != nil {
		return utils.ErrInvalidInput
	}

	record, err := s.itineraryRepo.GetItineraryById(ctx, itineraryID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if record == nil {
		return utils.ErrItineraryNotFound
	}

	feedback := &db_models.Feedback{
		UserID:      userID,
		ItineraryID: itineraryUUID,
		Comment:     comment,
		Rating:      rating,
	}
	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *FeedbackService) GetFeedbackForItinerary(ctx context.Context, itineraryID string, page, pageSize int) ([]db_models.Feedback, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	feedback, err := s.feedbackRepo.ListFeedbackForItinerary(ctx, itineraryID, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return feedback, nil
}
