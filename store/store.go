// Package store holds and searches patient notes with their embeddings.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"healthsearch/config"
	"healthsearch/models"
)

// ErrPersistence is returned when the backing store cannot be written.
var ErrPersistence = errors.New("failed to persist notes")

// VectorStore is an ordered collection of notes supporting append and top-k
// cosine-similarity ranking. The store owns its records exclusively; callers
// always receive copies.
type VectorStore interface {
	// Add assigns a fresh id to the note, appends it and persists the
	// collection before returning. The note is not committed if
	// persistence fails.
	Add(ctx context.Context, patientID, text string, embedding []float32) (models.Note, error)

	// Search returns the topK stored notes most similar to the query
	// vector, in descending score order. An empty store yields an empty
	// result, not an error.
	Search(ctx context.Context, query []float32, topK int) ([]models.SearchResult, error)

	// List returns all stored notes in insertion order.
	List(ctx context.Context) ([]models.Note, error)

	// Count returns the number of stored notes.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// New selects the store driver from configuration. The dimension is the
// embedder's, so every record ever added has embeddings of one fixed length.
func New(cfg *config.Config, dimension int, logger *zap.Logger) (VectorStore, error) {
	switch cfg.StoreProvider {
	case "jsonfile":
		return NewJSONFileStore(cfg.DataFile, dimension, logger), nil
	case "chroma":
		return NewChromaStore(cfg.ChromaURL, cfg.ChromaCollection, dimension, logger)
	default:
		return nil, fmt.Errorf("unsupported store provider: %s", cfg.StoreProvider)
	}
}
