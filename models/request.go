package models

type AddNoteRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	Note      string `json:"note" binding:"required"`
}
