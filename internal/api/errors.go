package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/notes-api/internal/api/shared"
	"github.com/phrazzld/notes-api/internal/service"
)

// UnexpectedErrorMessage is sent for errors that carry no client message.
const UnexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps service errors to HTTP status codes.
// Anything unrecognised is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleAPIError writes the status and {message} body for err.
// Collaborator errors keep the backend's message, so clients see the same
// text the identity backend or document store reported.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := service.ClientMessage(err, UnexpectedErrorMessage)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
