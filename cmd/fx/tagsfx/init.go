package tagsfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
)

var Module = fx.Provide(
	provideTagRepository,
	provideTagService,
)

func provideTagRepository(db *gorm.DB) repositories.TagRepositoryInterface {
	return repositories.NewTagRepository(db)
}

func provideTagService(tagRepo repositories.TagRepositoryInterface) services.TagServiceInterface {
	return services.NewTagService(tagRepo)
}
