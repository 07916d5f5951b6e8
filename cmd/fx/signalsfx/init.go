package signalsfx

import (
	"go.uber.org/fx"

	"voyago/internal/services"
	"voyago/pkg/logger"
	mem "voyago/pkg/memcache"
)

var Module = fx.Provide(
	provideWeatherClient,
	provideCrowdClient,
)

func provideWeatherClient(cache mem.Store, log *logger.Logger) services.WeatherServiceInterface {
	return services.NewWeatherClient(cache, log)
}

func provideCrowdClient(cache mem.Store, log *logger.Logger) services.CrowdServiceInterface {
	return services.NewCrowdClient(cache, log)
}
