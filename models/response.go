package models

type AddNoteResponse struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	Note      string `json:"note"`
}

// NoteItem is a note without its embedding, used in listing responses.
type NoteItem struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	Note      string `json:"note"`
}

// ListNotesResponse is the structure for the response of the GET /notes endpoint.
type ListNotesResponse struct {
	Count int        `json:"count"`
	Notes []NoteItem `json:"notes"`
}

type SearchResultItem struct {
	PatientID string  `json:"patient_id"`
	Note      string  `json:"note"`
	Score     float64 `json:"score"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Stored int    `json:"stored"`
}
