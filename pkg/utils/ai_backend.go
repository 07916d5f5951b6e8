package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
)

// GenerationOptions mirrors the knobs a single model call accepts. Timeout is
// a fallback: when the caller context already carries a deadline it wins.
type GenerationOptions struct {
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
	ForceJSON       bool
	SchemaHint      string
}

type GenerationBackendInterface interface {
	Name() string
	GenerateItinerary(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type BackendConfig struct {
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string
}

// NewGenerationBackend builds the configured provider client. A missing key is
// a configuration error and should stop startup.
func NewGenerationBackend(cfg BackendConfig) (GenerationBackendInterface, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is empty", ErrServiceNotConfigured)
		}
		return NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.Model), nil
	case "gemini", "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is empty", ErrServiceNotConfigured)
		}
		return NewGeminiBackend(cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrServiceNotConfigured, cfg.Provider)
	}
}

func ctxWithFallbackTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
