package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"healthsearch/embedding"
	"healthsearch/models"
	"healthsearch/store"
)

// searchTopK is the fixed number of results returned by a search.
const searchTopK = 3

// NoteService interface defines the note ingestion and search operations.
type NoteService interface {
	AddNote(ctx context.Context, patientID, text string) (models.Note, error)
	SearchNotes(ctx context.Context, query string) ([]models.SearchResult, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	Count(ctx context.Context) (int, error)
}

// noteServiceImpl holds the dependencies it needs to do its job.
type noteServiceImpl struct {
	embedder embedding.Embedder
	store    store.VectorStore
	logger   *zap.Logger
}

// NewNoteService creates a new note service instance.
func NewNoteService(embedder embedding.Embedder, vectorStore store.VectorStore, logger *zap.Logger) NoteService {
	return &noteServiceImpl{
		embedder: embedder,
		store:    vectorStore,
		logger:   logger,
	}
}

// AddNote embeds the note text and appends it to the store.
func (s *noteServiceImpl) AddNote(ctx context.Context, patientID, text string) (models.Note, error) {
	emb, err := s.embedder.Encode(ctx, text)
	if err != nil {
		return models.Note{}, fmt.Errorf("could not generate embedding for note: %w", err)
	}

	note, err := s.store.Add(ctx, patientID, text, emb)
	if err != nil {
		return models.Note{}, err
	}

	s.logger.Debug("note added",
		zap.String("id", note.ID),
		zap.String("patient_id", note.PatientID),
	)
	return note, nil
}

// SearchNotes embeds the query and ranks stored notes by similarity.
func (s *noteServiceImpl) SearchNotes(ctx context.Context, query string) ([]models.SearchResult, error) {
	emb, err := s.embedder.Encode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not generate embedding for query: %w", err)
	}

	results, err := s.store.Search(ctx, emb, searchTopK)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		zap.Int("results", len(results)),
	)
	return results, nil
}

// ListNotes returns every stored note.
func (s *noteServiceImpl) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.store.List(ctx)
}

// Count returns the number of stored notes.
func (s *noteServiceImpl) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
