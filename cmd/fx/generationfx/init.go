package generationfx

import (
	"os"

	"go.uber.org/fx"

	"voyago/internal/repositories"
	"voyago/internal/services"
	"voyago/pkg/logger"
	"voyago/pkg/utils"
)

var Module = fx.Provide(
	ProvideGenerationBackend,
	provideSchemaValidator,
	provideRecoveryChain,
	provideFallbackService,
	provideOrganizerService,
	provideRankerService,
	provideOrchestratorService,
	provideGenerationMetrics,
)

// ProvideGenerationBackend creates the model client based on environment
// variables. A missing credential aborts startup.
func ProvideGenerationBackend() (utils.GenerationBackendInterface, error) {
	return utils.NewGenerationBackend(utils.BackendConfig{
		Provider:     getEnvWithDefault("GENERATION_PROVIDER", "gemini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		Model:        os.Getenv("GENERATION_MODEL"),
	})
}

func provideSchemaValidator() services.SchemaValidatorInterface {
	return services.NewSchemaValidator()
}

func provideRecoveryChain(validator services.SchemaValidatorInterface) services.RecoveryChainInterface {
	return services.NewRecoveryChain(validator)
}

func provideFallbackService() services.FallbackServiceInterface {
	return services.NewFallbackService()
}

func provideOrganizerService() services.OrganizerServiceInterface {
	return services.NewOrganizerService()
}

func provideRankerService(
	embeddingRepo repositories.ActivityEmbeddingRepository,
	activityRepo repositories.ActivityRepository,
	backend utils.GenerationBackendInterface,
	log *logger.Logger,
) services.RankerServiceInterface {
	return services.NewRankerService(embeddingRepo, activityRepo, backend, log)
}

func provideOrchestratorService(
	backend utils.GenerationBackendInterface,
	recovery services.RecoveryChainInterface,
	fallback services.FallbackServiceInterface,
	log *logger.Logger,
) services.OrchestratorServiceInterface {
	return services.NewOrchestratorService(backend, recovery, fallback, log)
}

func provideGenerationMetrics(orchestrator services.OrchestratorServiceInterface) *services.GenerationMetrics {
	return orchestrator.Metrics()
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
