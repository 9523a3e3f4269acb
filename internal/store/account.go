package store

import (
	"context"
	"time"

	"github.com/phrazzld/notes-api/internal/domain"
)

// Credential is the result of a successful credential check. IDToken is a
// signed token asserting AccountID, comparable to what a hosted identity
// provider hands back after sign-in.
type Credential struct {
	AccountID string
	Email     string
	IDToken   string
	ExpiresAt time.Time
}

// AccountUpdate lists the account fields to change. Nil fields are left
// untouched.
type AccountUpdate struct {
	Email       *string
	Password    *string
	DisplayName *string
}

// AccountStore is the identity backend: the system of record for account
// credentials and identity lifecycle.
type AccountStore interface {
	// CreateAccount registers a new account and returns it with its
	// backend-assigned ID.
	// Returns ErrEmailExists if the email is already registered and
	// domain.ErrInvalidEmail / domain.ErrWeakPassword for rejected credentials.
	CreateAccount(ctx context.Context, email, password string) (*domain.Account, error)

	// VerifyCredentials checks an email/password pair.
	// Returns ErrInvalidCredentials if the email is unknown or the password
	// does not match.
	VerifyCredentials(ctx context.Context, email, password string) (*Credential, error)

	// UpdateAccount applies the non-nil fields of update.
	// Returns ErrAccountNotFound if the account does not exist and
	// ErrEmailExists if the new email belongs to another account.
	UpdateAccount(ctx context.Context, id string, update AccountUpdate) error

	// DeleteAccount removes the account permanently.
	// Returns ErrAccountNotFound if the account does not exist.
	DeleteAccount(ctx context.Context, id string) error

	// ListAccounts returns every account in no particular order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}
