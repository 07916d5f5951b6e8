package accountfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"voyago/internal/repositories"
	"voyago/internal/services"
	"voyago/pkg/logger"
)

var Module = fx.Provide(
	provideAccountRepository,
	provideAccountService,
)

func provideAccountRepository(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository, log *logger.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, log)
}
