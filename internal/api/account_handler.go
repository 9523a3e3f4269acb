package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/notes-api/internal/api/shared"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/service"
)

// Success messages for the account routes.
const (
	MsgUserRegistered = "User registered successfully"
	MsgUserUpdated    = "User information updated successfully"
	MsgUserDeleted    = "User and corresponding notes deleted successfully"
)

// AccountHandler serves /register, /edit/{uid} and /delete/{uid}.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts service.AccountService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	decodeBody(r, &req, h.logger)

	account, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Message: MsgUserRegistered,
		User:    userToResponse(account),
	})
}

// Edit handles PUT /edit/{uid}.
func (h *AccountHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var body EditBody
	decodeBody(r, &body, h.logger)

	err := h.accounts.Edit(r.Context(), service.EditRequest{
		UID:      chi.URLParam(r, "uid"),
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, MsgUserUpdated)
}

// Delete handles DELETE /delete/{uid}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body DeleteBody
	decodeBody(r, &body, h.logger)

	err := h.accounts.Delete(r.Context(), service.DeleteRequest{
		UID:      chi.URLParam(r, "uid"),
		Password: body.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, MsgUserDeleted)
}

// decodeBody fills v from the request body. Fields with the wrong JSON type
// are skipped and the rest are kept. Any other decode failure leaves v at its
// zero value, so the service reports the missing fields.
func decodeBody[T any](r *http.Request, v *T, fallback *slog.Logger) {
	err := shared.DecodeJSON(r, v)
	if err == nil {
		return
	}
	log := logger.FromContextOrDefault(r.Context(), fallback)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		log.Debug("skipping mistyped request field", slog.String("field", typeErr.Field))
		return
	}
	log.Debug("ignoring undecodable request body", redact.Attr(err))
	var zero T
	*v = zero
}
