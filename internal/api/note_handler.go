package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/notes-api/internal/api/shared"
	"github.com/phrazzld/notes-api/internal/service"
)

// MsgNoteSaved is the success message of POST /notes/save.
const MsgNoteSaved = "Note saved successfully"

// NoteHandler serves /notes/save and /notes/{uid}.
type NoteHandler struct {
	notes  service.AccountService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes service.AccountService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteHandler{
		notes:  notes,
		logger: logger.With(slog.String("component", "note_handler")),
	}
}

// SaveNote handles POST /notes/save.
func (h *NoteHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	var req service.SaveNoteRequest
	decodeBody(r, &req, h.logger)

	note, err := h.notes.SaveNote(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SaveNoteResponse{
		Message: MsgNoteSaved,
		ID:      note.ID,
	})
}

// ListNotes handles GET /notes/{uid}.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.ListNotes(r.Context(), service.ListNotesRequest{
		UID: chi.URLParam(r, "uid"),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notesToResponse(notes))
}
