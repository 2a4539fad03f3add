package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthsearch/config"
	"healthsearch/models"
)

// fakeOllama serves Ollama's embedding API shape with a fixed vector.
func fakeOllama(t *testing.T, vec []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/embeddings", r.URL.Path)

		var req models.OllamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Model)
		require.NotEmpty(t, req.Prompt)

		json.NewEncoder(w).Encode(models.OllamaEmbedResponse{Embedding: vec})
	}))
}

func TestOllamaEmbedderProbesDimension(t *testing.T) {
	srv := fakeOllama(t, []float32{3, 4})
	defer srv.Close()

	e, err := NewOllamaEmbedder(context.Background(), srv.URL, "test-model")
	require.NoError(t, err)

	assert.Equal(t, 2, e.Dimension())
	assert.Equal(t, "ollama/test-model", e.ModelName())
}

func TestOllamaEmbedderNormalizesOutput(t *testing.T) {
	srv := fakeOllama(t, []float32{3, 4})
	defer srv.Close()

	e, err := NewOllamaEmbedder(context.Background(), srv.URL, "test-model")
	require.NoError(t, err)

	vec, err := e.Encode(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)
}

func TestOllamaEmbedderRejectsEmptyInput(t *testing.T) {
	srv := fakeOllama(t, []float32{1, 0})
	defer srv.Close()

	e, err := NewOllamaEmbedder(context.Background(), srv.URL, "test-model")
	require.NoError(t, err)

	_, err = e.Encode(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestOllamaEmbedderPropagatesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(context.Background(), srv.URL, "test-model")
	require.Error(t, err)
}

func TestNewSelectsConfiguredProvider(t *testing.T) {
	srv := fakeOllama(t, []float32{1, 0, 0})
	defer srv.Close()

	logger := zap.NewNop()

	t.Run("fallback", func(t *testing.T) {
		e, err := New(context.Background(), &config.Config{EmbeddingProvider: "fallback", EmbeddingDim: 64}, logger)
		require.NoError(t, err)
		assert.Equal(t, "fallback", e.ModelName())
		assert.Equal(t, 64, e.Dimension())
	})

	t.Run("ollama", func(t *testing.T) {
		e, err := New(context.Background(), &config.Config{EmbeddingProvider: "ollama", OllamaURL: srv.URL, OllamaModel: "test-model"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "ollama/test-model", e.ModelName())
		assert.Equal(t, 3, e.Dimension())
	})

	t.Run("auto prefers ollama", func(t *testing.T) {
		e, err := New(context.Background(), &config.Config{EmbeddingProvider: "auto", OllamaURL: srv.URL, OllamaModel: "test-model"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "ollama/test-model", e.ModelName())
	})

	t.Run("auto degrades to fallback", func(t *testing.T) {
		down := fakeOllama(t, []float32{1})
		down.Close()

		e, err := New(context.Background(), &config.Config{EmbeddingProvider: "auto", OllamaURL: down.URL, EmbeddingDim: 384}, logger)
		require.NoError(t, err)
		assert.Equal(t, "fallback", e.ModelName())
	})

	t.Run("gemini requires api key", func(t *testing.T) {
		_, err := New(context.Background(), &config.Config{EmbeddingProvider: "gemini"}, logger)
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), &config.Config{EmbeddingProvider: "quantum"}, logger)
		require.Error(t, err)
	})
}
