package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthsearch/models"
)

// JSONFileStore keeps all notes in memory and rewrites the whole collection
// to a JSON file on every add. The full-file rewrite is an O(n) scalability
// ceiling, acceptable at this scale; a larger deployment would swap in an
// append-only log or an embedded key-value store behind the same interface.
type JSONFileStore struct {
	path      string
	dimension int
	logger    *zap.Logger

	mu    sync.RWMutex
	notes []models.Note
}

// NewJSONFileStore opens the store backed by the JSON file at path. Missing
// or unreadable prior state is never fatal: the store starts empty instead.
func NewJSONFileStore(path string, dimension int, logger *zap.Logger) *JSONFileStore {
	s := &JSONFileStore{
		path:      path,
		dimension: dimension,
		logger:    logger,
	}
	s.load()
	return s
}

// load reads prior state from disk. Corrupt data or records of a different
// embedding dimension mean the file was written under another configuration,
// so the store starts from an empty collection.
func (s *JSONFileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read data file, starting empty",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return
	}

	var notes []models.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.logger.Warn("data file is not valid JSON, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return
	}

	for _, n := range notes {
		if len(n.Embedding) != s.dimension {
			s.logger.Warn("data file holds embeddings of a different dimension, starting empty",
				zap.String("path", s.path),
				zap.Int("want", s.dimension),
				zap.Int("got", len(n.Embedding)),
			)
			return
		}
	}

	s.notes = notes
	s.logger.Info("loaded notes from disk",
		zap.String("path", s.path),
		zap.Int("count", len(notes)),
	)
}

// Add implements VectorStore. The append and the file rewrite happen under
// one lock so concurrent adds never interleave and a search never observes a
// half-appended collection. On a failed rewrite the append is rolled back:
// memory and disk never diverge.
func (s *JSONFileStore) Add(_ context.Context, patientID, text string, embedding []float32) (models.Note, error) {
	if len(embedding) != s.dimension {
		return models.Note{}, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emb := make([]float32, len(embedding))
	copy(emb, embedding)

	note := models.Note{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Note:      text,
		Embedding: emb,
	}
	s.notes = append(s.notes, note)

	if err := s.save(); err != nil {
		s.notes = s.notes[:len(s.notes)-1]
		return models.Note{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return note, nil
}

// save rewrites the whole collection through a temp file and a rename, so a
// crash mid-write leaves the previous file intact.
func (s *JSONFileStore) save() error {
	data, err := json.MarshalIndent(s.notes, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".notes-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Search implements VectorStore. Brute-force cosine over every stored note;
// ties keep insertion order so results are reproducible for a fixed store.
func (s *JSONFileStore) Search(_ context.Context, query []float32, topK int) ([]models.SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be at least 1, got %d", topK)
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.notes) == 0 {
		return []models.SearchResult{}, nil
	}

	results := make([]models.SearchResult, 0, len(s.notes))
	for _, n := range s.notes {
		results = append(results, models.SearchResult{
			ID:        n.ID,
			PatientID: n.PatientID,
			Note:      n.Note,
			Score:     cosineSimilarity(query, n.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// List implements VectorStore.
func (s *JSONFileStore) List(_ context.Context) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out, nil
}

// Count implements VectorStore.
func (s *JSONFileStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes), nil
}

// Close implements VectorStore. The file is rewritten on every add, so there
// is nothing to flush.
func (s *JSONFileStore) Close() error {
	return nil
}

// cosineSimilarity computes dot(a,b) / (||a|| * ||b||). A zero norm
// contributes a denominator factor of 1 instead of dividing by zero, so the
// zero vector scores 0 against everything.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denomA := math.Sqrt(normA)
	denomB := math.Sqrt(normB)
	if denomA == 0 {
		denomA = 1
	}
	if denomB == 0 {
		denomB = 1
	}
	return dot / (denomA * denomB)
}

var _ VectorStore = (*JSONFileStore)(nil)
