package embedding

import (
	"context"
	"strings"
)

// DefaultDimension is the fallback vector size, chosen to match the common
// sentence-transformer models so stored data stays compatible if a real
// model is enabled later.
const DefaultDimension = 384

// FallbackEmbedder is a deterministic, dependency-free embedder used when no
// external model is available. Each character adds a small weight derived
// from its code point into a bucket chosen by its position, and the result
// is scaled to unit norm. Texts sharing characters at the same positions end
// up with correlated vectors, which is enough for coarse similarity ranking.
type FallbackEmbedder struct {
	dimension int
}

// NewFallbackEmbedder creates a fallback embedder of the given dimension.
// Non-positive dimensions fall back to DefaultDimension.
func NewFallbackEmbedder(dimension int) *FallbackEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &FallbackEmbedder{dimension: dimension}
}

// Encode implements Embedder.
func (e *FallbackEmbedder) Encode(_ context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	vec := make([]float32, e.dimension)
	i := 0
	for _, r := range text {
		vec[i%e.dimension] += float32(int(r)%97 + 1)
		i++
	}
	return normalize(vec), nil
}

// Dimension implements Embedder.
func (e *FallbackEmbedder) Dimension() int {
	return e.dimension
}

// ModelName implements Embedder.
func (e *FallbackEmbedder) ModelName() string {
	return "fallback"
}

var _ Embedder = (*FallbackEmbedder)(nil)
