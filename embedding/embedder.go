// Package embedding converts note text into fixed-dimension vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"healthsearch/config"
)

// ErrEmptyInput is returned when an embedding is requested for blank text.
var ErrEmptyInput = errors.New("cannot embed empty text")

// Embedder produces a deterministic vector embedding for a piece of text.
// The strategy is chosen once at startup and injected wherever embeddings
// are needed; callers never care which provider is behind it.
type Embedder interface {
	// Encode converts text into a unit-length vector embedding.
	// Leading and trailing whitespace is ignored; text that is empty after
	// trimming yields ErrEmptyInput.
	Encode(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName identifies the provider and model behind this embedder.
	ModelName() string
}

// New selects the embedding provider from configuration. The "auto" provider
// tries Ollama first and degrades to the deterministic fallback when the
// model is unreachable, so the service always boots.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		return NewOllamaEmbedder(ctx, cfg.OllamaURL, cfg.OllamaModel)
	case "gemini":
		return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "fallback":
		return NewFallbackEmbedder(cfg.EmbeddingDim), nil
	case "auto":
		emb, err := NewOllamaEmbedder(ctx, cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			logger.Warn("ollama unavailable, using deterministic fallback embedder",
				zap.String("url", cfg.OllamaURL),
				zap.Error(err),
			)
			return NewFallbackEmbedder(cfg.EmbeddingDim), nil
		}
		return emb, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// normalize scales vec to unit Euclidean norm in place. A zero vector is
// returned unchanged rather than dividing by zero.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
