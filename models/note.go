package models

// Note is a single stored patient note together with its embedding.
// The JSON tags double as the persisted file layout, so they must not change.
type Note struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Note      string    `json:"note"`
	Embedding []float32 `json:"embedding"`
}

// SearchResult is a Note annotated with its cosine similarity against one
// query. It only exists for the duration of a search call.
type SearchResult struct {
	ID        string  `json:"id"`
	PatientID string  `json:"patient_id"`
	Note      string  `json:"note"`
	Score     float64 `json:"score"`
}
