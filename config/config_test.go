package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "SVC_TOKEN", "EMBEDDING_PROVIDER", "EMBEDDING_DIM",
		"STORE_PROVIDER", "DATA_FILE", "IMPORT_DIR", "DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "super-secret-token", cfg.AuthToken)
	assert.Equal(t, "auto", cfg.EmbeddingProvider)
	assert.Equal(t, 384, cfg.EmbeddingDim)
	assert.Equal(t, "jsonfile", cfg.StoreProvider)
	assert.Equal(t, "data.json", cfg.DataFile)
	assert.Empty(t, cfg.ImportDir)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SVC_TOKEN", "another-token")
	t.Setenv("EMBEDDING_PROVIDER", "fallback")
	t.Setenv("EMBEDDING_DIM", "128")
	t.Setenv("STORE_PROVIDER", "chroma")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "another-token", cfg.AuthToken)
	assert.Equal(t, "fallback", cfg.EmbeddingProvider)
	assert.Equal(t, 128, cfg.EmbeddingDim)
	assert.Equal(t, "chroma", cfg.StoreProvider)
	assert.True(t, cfg.Debug)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("EMBEDDING_DIM", "many")
	t.Setenv("DEBUG", "sure")

	cfg := Load()

	assert.Equal(t, 384, cfg.EmbeddingDim)
	assert.False(t, cfg.Debug)
}
