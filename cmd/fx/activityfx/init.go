package activityfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
	"voyago/pkg/logger"
	"voyago/pkg/utils"
)

var Module = fx.Provide(
	provideActivityRepository,
	provideActivityEmbeddingRepository,
	provideActivityService,
)

func provideActivityRepository(db *gorm.DB) repositories.ActivityRepository {
	return repositories.NewActivityRepository(db)
}

func provideActivityEmbeddingRepository(db *gorm.DB) repositories.ActivityEmbeddingRepository {
	return repositories.NewActivityEmbeddingRepository(db)
}

func provideActivityService(
	activityRepo repositories.ActivityRepository,
	embeddingRepo repositories.ActivityEmbeddingRepository,
	destinationRepo repositories.DestinationRepository,
	tagRepo repositories.TagRepositoryInterface,
	backend utils.GenerationBackendInterface,
	log *logger.Logger,
) services.ActivityServiceInterface {
	return services.NewActivityService(activityRepo, embeddingRepo, destinationRepo, tagRepo, backend, log)
}
