package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/notes-api/internal/domain"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/service/auth"
	"github.com/phrazzld/notes-api/internal/store"
)

// AccountStore implements store.AccountStore on the accounts table.
type AccountStore struct {
	db        store.DBTX
	passwords auth.PasswordHashVerifier
	tokens    auth.TokenService
	logger    *slog.Logger
}

var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an AccountStore. db may be a *sql.DB or a *sql.Tx.
// If log is nil, the default logger is used.
func NewAccountStore(
	db store.DBTX,
	passwords auth.PasswordHashVerifier,
	tokens auth.TokenService,
	log *slog.Logger,
) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if passwords == nil || tokens == nil {
		panic("passwords and tokens cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &AccountStore{
		db:        db,
		passwords: passwords,
		tokens:    tokens,
		logger:    log.With(slog.String("component", "postgres_account_store")),
	}
}

// CreateAccount implements store.AccountStore.CreateAccount.
func (s *AccountStore) CreateAccount(
	ctx context.Context,
	email, password string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	account := domain.Account{ID: uuid.NewString(), Email: email}
	query := `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err = s.db.QueryRowContext(ctx, query, account.ID, account.Email, hash).Scan(&account.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("account email already registered")
			return nil, MapUniqueViolation(err, store.ErrEmailExists)
		}
		log.Error("failed to create account", redact.Attr(err))
		return nil, MapError(err)
	}
	account.CreatedAt = account.CreatedAt.UTC()

	log.Debug("account created", slog.String("account_id", account.ID))
	return &account, nil
}

// VerifyCredentials implements store.AccountStore.VerifyCredentials.
func (s *AccountStore) VerifyCredentials(
	ctx context.Context,
	email, password string,
) (*store.Credential, error) {
	query := `SELECT id, email, password_hash FROM accounts WHERE email = $1`

	var id, storedEmail, hash string
	err := s.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)).Scan(&id, &storedEmail, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInvalidCredentials
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load account", redact.Attr(err))
		return nil, MapError(err)
	}

	if err := s.passwords.Compare(hash, password); err != nil {
		return nil, store.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueIDToken(ctx, id, storedEmail)
	if err != nil {
		return nil, err
	}

	return &store.Credential{
		AccountID: id,
		Email:     storedEmail,
		IDToken:   token,
		ExpiresAt: expiresAt,
	}, nil
}

// UpdateAccount implements store.AccountStore.UpdateAccount. All requested
// changes are applied by a single statement.
func (s *AccountStore) UpdateAccount(
	ctx context.Context,
	id string,
	update store.AccountUpdate,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var email, hash, name sql.NullString
	if update.Email != nil {
		normalized := domain.NormalizeEmail(*update.Email)
		if err := domain.ValidateEmail(normalized); err != nil {
			return err
		}
		email = sql.NullString{String: normalized, Valid: true}
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return err
		}
		h, err := s.passwords.Hash(*update.Password)
		if err != nil {
			return err
		}
		hash = sql.NullString{String: h, Valid: true}
	}
	if update.DisplayName != nil {
		name = sql.NullString{String: *update.DisplayName, Valid: true}
	}

	query := `
		UPDATE accounts
		SET email = COALESCE($2, email),
			password_hash = COALESCE($3, password_hash),
			display_name = COALESCE($4, display_name),
			updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, email, hash, name, time.Now().UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrEmailExists)
		}
		log.Error("failed to update account", redact.Attr(err), slog.String("account_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)); err != nil {
		return err
	}

	log.Debug("account updated", slog.String("account_id", id))
	return nil
}

// DeleteAccount implements store.AccountStore.DeleteAccount.
func (s *AccountStore) DeleteAccount(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account", redact.Attr(err), slog.String("account_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)); err != nil {
		return err
	}

	log.Debug("account deleted", slog.String("account_id", id))
	return nil
}

// ListAccounts implements store.AccountStore.ListAccounts.
func (s *AccountStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, display_name, created_at FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to close rows", redact.Attr(closeErr))
		}
	}()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.DisplayName, &a.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return accounts, nil
}
