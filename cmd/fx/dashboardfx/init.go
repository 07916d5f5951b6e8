package dashboardfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
)

var Module = fx.Provide(
	provideDashboardRepository,
	provideDashboardService,
)

func provideDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideDashboardService(dashboardRepo repositories.DashboardRepository, metrics *services.GenerationMetrics) services.DashboardServiceInterface {
	return services.NewDashboardService(dashboardRepo, metrics)
}
