package service

import "errors"

// Sentinel errors for the five failure classes of AccountService. Every
// error returned by AccountService matches exactly one of them with
// errors.Is, and the API layer maps them to HTTP status codes.
var (
	// ErrValidation indicates a missing or empty required field.
	// API layer should map this to HTTP 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the requested email belongs to another account.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("conflict")

	// ErrNotFound indicates the account has no users record.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the supplied credentials do not belong to the account.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCollaborator indicates the identity backend or document store failed.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrCollaborator = errors.New("collaborator failure")
)

// ServiceError carries the client-facing message of a failed operation
// along with the operation name and the underlying cause, if any.
type ServiceError struct {
	Op      string // operation that failed, e.g. "register"
	Message string // safe to return to clients
	Err     error  // underlying cause, may be nil
}

// Error returns the client-facing message.
func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ValidationError reports a missing required field.
type ValidationError struct{ ServiceError }

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports an email already used by another account.
type ConflictError struct{ ServiceError }

// Is matches ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports an unknown account id.
type NotFoundError struct{ ServiceError }

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnauthorizedError reports a credential mismatch.
type UnauthorizedError struct{ ServiceError }

// Is matches ErrUnauthorized.
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// CollaboratorError wraps a failure returned by the identity backend or the
// document store. Its message is the collaborator's own error text.
type CollaboratorError struct{ ServiceError }

// Is matches ErrCollaborator.
func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

func newValidationError(op, message string) error {
	return &ValidationError{ServiceError{Op: op, Message: message}}
}

func newConflictError(op, message string) error {
	return &ConflictError{ServiceError{Op: op, Message: message}}
}

func newNotFoundError(op, message string, err error) error {
	return &NotFoundError{ServiceError{Op: op, Message: message, Err: err}}
}

func newUnauthorizedError(op, message string, err error) error {
	return &UnauthorizedError{ServiceError{Op: op, Message: message, Err: err}}
}

func newCollaboratorError(op string, err error) error {
	return &CollaboratorError{ServiceError{Op: op, Message: err.Error(), Err: err}}
}

// ClientMessage returns the message to show a client for err. Errors that
// did not come from AccountService yield fallback.
func ClientMessage(err error, fallback string) string {
	var svcErr interface{ clientMessage() string }
	if errors.As(err, &svcErr) {
		return svcErr.clientMessage()
	}
	return fallback
}

func (e *ServiceError) clientMessage() string { return e.Message }
