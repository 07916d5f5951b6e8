package utils

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"voyago/pkg/httpx"
)

// GeminiBackend generates itineraries with Google's Gemini models.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(apiKey, model string) (GenerationBackendInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiBackend) Name() string { return "gemini" }

func (c *GeminiBackend) GenerateItinerary(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(opts.Temperature)
	m.SetTopP(0.5)
	m.SetTopK(20)
	if opts.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	if opts.ForceJSON {
		m.ResponseMIMEType = "application/json"
	}

	full := prompt
	if opts.SchemaHint != "" {
		full = prompt + "\n\nMatch this JSON schema exactly:\n" + opts.SchemaHint
	}

	callCtx, cancel := ctxWithFallbackTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := m.GenerateContent(callCtx, genai.Text(full))
	if err != nil {
		return "", c.wrapError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (c *GeminiBackend) wrapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &httpx.BackendCallError{Provider: "gemini", StatusCode: gerr.Code, Err: err}
	}
	return &httpx.BackendCallError{Provider: "gemini", Err: err}
}

// GetEmbedding builds a deterministic hash-based vector. The free Gemini tier
// has no embedding endpoint, so similarity search runs on this approximation.
func (c *GeminiBackend) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return c.textToVector(text), nil
}

func (c *GeminiBackend) textToVector(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	const dimensions = 1536
	vector := make([]float32, dimensions)

	for _, word := range words {
		hash := c.hashWord(word)
		for i := 0; i < dimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	magnitude := float32(0)
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return pgvector.NewVector(vector)
}

func (c *GeminiBackend) hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}

func (c *GeminiBackend) Close() error {
	return c.client.Close()
}
