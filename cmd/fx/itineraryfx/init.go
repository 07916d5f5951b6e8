package itineraryfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
	"voyago/pkg/logger"
	mem "voyago/pkg/memcache"
)

var Module = fx.Provide(
	provideItineraryRepository,
	provideItineraryService,
)

func provideItineraryRepository(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideItineraryService(
	ranker services.RankerServiceInterface,
	orchestrator services.OrchestratorServiceInterface,
	organizer services.OrganizerServiceInterface,
	weather services.WeatherServiceInterface,
	crowd services.CrowdServiceInterface,
	accountRepo repositories.AccountRepository,
	itineraryRepo repositories.ItineraryRepository,
	cache mem.Store,
	log *logger.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(
		ranker,
		orchestrator,
		organizer,
		weather,
		crowd,
		accountRepo,
		itineraryRepo,
		cache,
		log,
	)
}
