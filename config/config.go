package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service. Values come from
// the environment, optionally seeded from a .env file.
type Config struct {
	Port      string
	AuthToken string

	// Embedding
	EmbeddingProvider string // "auto", "ollama", "gemini" or "fallback"
	EmbeddingDim      int    // dimension of the fallback embedder
	OllamaURL         string
	OllamaModel       string
	GeminiAPIKey      string
	GeminiModel       string

	// Storage
	StoreProvider    string // "jsonfile" or "chroma"
	DataFile         string
	ChromaURL        string
	ChromaCollection string

	// Note importer (disabled when ImportDir is empty)
	ImportDir          string
	ImportChunkSize    int
	ImportChunkOverlap int

	Debug bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present, matching local development setups.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		AuthToken: getEnv("SVC_TOKEN", "super-secret-token"),

		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "auto"),
		EmbeddingDim:      getEnvInt("EMBEDDING_DIM", 384),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text:v1.5"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),

		StoreProvider:    getEnv("STORE_PROVIDER", "jsonfile"),
		DataFile:         getEnv("DATA_FILE", "data.json"),
		ChromaURL:        getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaCollection: getEnv("CHROMA_COLLECTION", "patient-notes"),

		ImportDir:          getEnv("IMPORT_DIR", ""),
		ImportChunkSize:    getEnvInt("IMPORT_CHUNK_SIZE", 1000),
		ImportChunkOverlap: getEnvInt("IMPORT_CHUNK_OVERLAP", 100),

		Debug: getEnvBool("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: invalid integer for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: invalid boolean for %s: %q, using default %t", key, v, fallback)
		return fallback
	}
	return b
}
