package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"voyago/pkg/httpx"
)

// OpenAIBackend generates itineraries and embeddings via the OpenAI API.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, model string) GenerationBackendInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIBackend) Name() string { return "openai" }

func (c *OpenAIBackend) GenerateItinerary(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: opts.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a travel planner that responds with JSON itineraries."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if opts.MaxOutputTokens > 0 {
		req.MaxTokens = int(opts.MaxOutputTokens)
	}
	if opts.ForceJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if opts.SchemaHint != "" {
		req.Messages[0].Content += " Match this JSON schema exactly:\n" + opts.SchemaHint
	}

	callCtx, cancel := ctxWithFallbackTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		return "", c.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIBackend) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, c.wrapError(err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai returned no embedding data")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

func (c *OpenAIBackend) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &httpx.BackendCallError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	return &httpx.BackendCallError{Provider: "openai", Err: err}
}
