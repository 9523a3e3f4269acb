package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password an identity backend accepts.
const MinPasswordLength = 6

// Collection names in the document store.
const (
	UsersCollection = "users"
	NotesCollection = "notes"
)

// Document field names. They match the documents written by earlier
// deployments of this API so existing data stays readable.
const (
	FieldUID       = "uid"
	FieldEmail     = "email"
	FieldName      = "name"
	FieldCreatedAt = "createdAt"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldTimestamp = "timestamp"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var emailValidator = validator.New()

// Account represents a registered user. The identity backend is the system
// of record for credentials; the users collection mirrors the profile.
type Account struct {
	ID          string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeEmail lower-cases and trims an address so that lookups and the
// uniqueness rule ignore case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks the email and password rules shared by all
// identity backends.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateEmail reports ErrEmptyEmail or ErrInvalidEmail.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword reports ErrEmptyPassword or ErrWeakPassword.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Document returns the users-collection representation of the account.
func (a *Account) Document() map[string]any {
	return map[string]any{
		FieldUID:       a.ID,
		FieldEmail:     a.Email,
		FieldName:      a.DisplayName,
		FieldCreatedAt: FormatTimestamp(a.CreatedAt),
	}
}

// AccountFromDocument rebuilds an Account from a users-collection document.
// A missing or unparsable createdAt leaves CreatedAt zero.
func AccountFromDocument(id string, data map[string]any) (*Account, error) {
	email, ok := data[FieldEmail].(string)
	if !ok {
		return nil, fmt.Errorf("%w: user %s has no email", ErrInvalidDocument, id)
	}

	account := &Account{
		ID:    id,
		Email: email,
	}
	if name, ok := data[FieldName].(string); ok {
		account.DisplayName = name
	}
	if raw, ok := data[FieldCreatedAt].(string); ok {
		if createdAt, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			account.CreatedAt = createdAt
		}
	}
	return account, nil
}
