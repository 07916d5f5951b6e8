package feedbackfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
)

var Module = fx.Provide(
	provideFeedbackRepository,
	provideFeedbackService,
)

func provideFeedbackRepository(db *gorm.DB) repositories.FeedbackRepositoryInterface {
	return repositories.NewFeedbackRepository(db)
}

func provideFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	itineraryRepo repositories.ItineraryRepository,
) services.FeedbackServiceInterface {
	return services.NewFeedbackService(feedbackRepo, itineraryRepo)
}
