package store

import (
	"context"
	"encoding/json"
	"fmt"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthsearch/models"
)

// ChromaStore is an alternative driver backed by a ChromaDB collection.
// Chroma persists every record itself, so there is no full-file rewrite and
// no rollback concern here. Scores are derived from Chroma's distances via
// 1/(1+d), monotonic in similarity but not the exact cosine value the
// jsonfile driver reports.
type ChromaStore struct {
	client     chromago.Client
	collection chromago.Collection
	dimension  int
	logger     *zap.Logger
}

// NewChromaStore connects to ChromaDB and gets or creates the collection.
func NewChromaStore(url, collectionName string, dimension int, logger *zap.Logger) (*ChromaStore, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(url))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		context.Background(),
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "patient notes with embeddings"),
			),
		),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}

	logger.Info("connected to chroma",
		zap.String("url", url),
		zap.String("collection", collectionName),
	)

	return &ChromaStore{
		client:     client,
		collection: collection,
		dimension:  dimension,
		logger:     logger,
	}, nil
}

// Add implements VectorStore.
func (s *ChromaStore) Add(ctx context.Context, patientID, text string, embedding []float32) (models.Note, error) {
	if len(embedding) != s.dimension {
		return models.Note{}, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	note := models.Note{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Note:      text,
		Embedding: embedding,
	}

	err := s.collection.Add(ctx,
		chromago.WithIDs(chromago.DocumentID(note.ID)),
		chromago.WithTexts(text),
		chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithMetadatas(chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("patient_id", patientID),
		)),
	)
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return note, nil
}

// Search implements VectorStore.
func (s *ChromaStore) Search(ctx context.Context, query []float32, topK int) ([]models.SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be at least 1, got %d", topK)
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	results, err := s.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(query)),
		chromago.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chroma: %w", err)
	}

	idGroups := results.GetIDGroups()
	docGroups := results.GetDocumentsGroups()
	metaGroups := results.GetMetadatasGroups()
	distGroups := results.GetDistancesGroups()
	if len(idGroups) == 0 || len(idGroups[0]) == 0 {
		return []models.SearchResult{}, nil
	}

	out := make([]models.SearchResult, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		r := models.SearchResult{ID: string(id)}
		if len(docGroups) > 0 && i < len(docGroups[0]) {
			r.Note = docGroups[0][i].ContentString()
		}
		if len(metaGroups) > 0 && i < len(metaGroups[0]) {
			r.PatientID = patientIDFromMetadata(metaGroups[0][i])
		}
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			r.Score = 1.0 / (1.0 + float64(distGroups[0][i]))
		}
		out = append(out, r)
	}
	return out, nil
}

// List implements VectorStore.
func (s *ChromaStore) List(ctx context.Context) ([]models.Note, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chroma: %w", err)
	}

	ids := results.GetIDs()
	docs := results.GetDocuments()
	metas := results.GetMetadatas()

	notes := make([]models.Note, 0, len(ids))
	for i, id := range ids {
		n := models.Note{ID: string(id)}
		if i < len(docs) {
			n.Note = docs[i].ContentString()
		}
		if i < len(metas) {
			n.PatientID = patientIDFromMetadata(metas[i])
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Count implements VectorStore.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// Close implements VectorStore.
func (s *ChromaStore) Close() error {
	return s.client.Close()
}

// patientIDFromMetadata digs the patient id out of a chroma metadata value.
// DocumentMetadata has no public accessor for arbitrary keys; round-tripping
// through JSON is the supported way to read it back as a map.
func patientIDFromMetadata(meta chromago.DocumentMetadata) string {
	if meta == nil {
		return ""
	}
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &m); err != nil {
		return ""
	}
	if pid, ok := m["patient_id"].(string); ok {
		return pid
	}
	return ""
}

var _ VectorStore = (*ChromaStore)(nil)
