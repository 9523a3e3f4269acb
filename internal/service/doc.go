// Package service contains the application use cases. AccountService
// orchestrates the identity backend and the document store (both defined as
// interfaces in internal/store) to register, edit and delete accounts and to
// save and list notes.
//
// The service validates required fields before touching either backend,
// calls the backends in a fixed order, and converts every failure into one
// of five error types (ValidationError, ConflictError, NotFoundError,
// UnauthorizedError, CollaboratorError). The API layer maps those to HTTP
// status codes.
//
// Operations that span several backend calls are not transactional. A
// failure part way through leaves the completed steps in place; nothing is
// retried or compensated.
package service
