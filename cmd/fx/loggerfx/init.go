package loggerfx

import (
	"os"

	"go.uber.org/fx"

	"voyago/pkg/logger"
)

var Module = fx.Provide(provideLogger)

func provideLogger() (*logger.Logger, error) {
	return logger.New(os.Getenv("APP_ENV"))
}
