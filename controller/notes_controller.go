package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthsearch/embedding"
	"healthsearch/models"
	"healthsearch/services"
)

// NotesController handles the HTTP requests for the note store. It depends
// on the NoteService to perform the actual business logic.
type NotesController struct {
	noteService services.NoteService
	logger      *zap.Logger
}

// NewNotesController creates a new NotesController. This is called from
// main.go to inject the service dependency.
func NewNotesController(service services.NoteService, logger *zap.Logger) *NotesController {
	return &NotesController{
		noteService: service,
		logger:      logger,
	}
}

// AddNote is the gin handler for the POST /add_note endpoint.
func (c *NotesController) AddNote(ctx *gin.Context) {
	var req models.AddNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	note, err := c.noteService.AddNote(ctx.Request.Context(), req.PatientID, req.Note)
	if err != nil {
		if errors.Is(err, embedding.ErrEmptyInput) {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate embedding"})
			return
		}
		c.logger.Error("failed to add note", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add note"})
		return
	}

	ctx.JSON(http.StatusCreated, models.AddNoteResponse{
		ID:        note.ID,
		PatientID: note.PatientID,
		Note:      note.Note,
	})
}

// SearchNotes is the gin handler for the GET /search_notes endpoint.
func (c *NotesController) SearchNotes(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := c.noteService.SearchNotes(ctx.Request.Context(), query)
	if err != nil {
		if errors.Is(err, embedding.ErrEmptyInput) {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate embedding"})
			return
		}
		c.logger.Error("failed to search notes", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search notes"})
		return
	}

	items := make([]models.SearchResultItem, 0, len(results))
	for _, r := range results {
		items = append(items, models.SearchResultItem{
			PatientID: r.PatientID,
			Note:      r.Note,
			Score:     r.Score,
		})
	}
	ctx.JSON(http.StatusOK, items)
}

// ListNotes is the gin handler for the GET /notes endpoint.
func (c *NotesController) ListNotes(ctx *gin.Context) {
	notes, err := c.noteService.ListNotes(ctx.Request.Context())
	if err != nil {
		c.logger.Error("failed to list notes", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	items := make([]models.NoteItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, models.NoteItem{
			ID:        n.ID,
			PatientID: n.PatientID,
			Note:      n.Note,
		})
	}
	ctx.JSON(http.StatusOK, models.ListNotesResponse{
		Count: len(items),
		Notes: items,
	})
}

// Health is the gin handler for the GET /health endpoint.
func (c *NotesController) Health(ctx *gin.Context) {
	count, err := c.noteService.Count(ctx.Request.Context())
	if err != nil {
		c.logger.Error("failed to count notes", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notes"})
		return
	}
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status: "ok",
		Stored: count,
	})
}
