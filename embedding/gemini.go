package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiEmbedder generates embeddings through Google's Gemini API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiEmbedder creates a Gemini-backed embedder. Like the Ollama
// embedder it probes the model once at construction to learn the dimension
// and to fail early when the API key is wrong.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	e := &GeminiEmbedder{
		client: client,
		model:  model,
	}

	probe, err := e.embed(ctx, "dimension probe")
	if err != nil {
		return nil, fmt.Errorf("gemini embedding model not available: %w", err)
	}
	e.dimension = len(probe)

	return e, nil
}

// Encode implements Embedder.
func (e *GeminiEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	vec, err := e.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return normalize(vec), nil
}

func (e *GeminiEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding api call failed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini returned no embedding")
	}
	return resp.Embeddings[0].Values, nil
}

// Dimension implements Embedder.
func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

// ModelName implements Embedder.
func (e *GeminiEmbedder) ModelName() string {
	return "gemini/" + e.model
}

var _ Embedder = (*GeminiEmbedder)(nil)
