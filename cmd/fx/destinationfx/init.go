package destinationfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
)

var Module = fx.Provide(
	provideDestinationRepository,
	provideDestinationService,
)

func provideDestinationRepository(db *gorm.DB) repositories.DestinationRepository {
	return repositories.NewDestinationRepository(db)
}

func provideDestinationService(destinationRepo repositories.DestinationRepository) services.DestinationServiceInterface {
	return services.NewDestinationService(destinationRepo)
}
