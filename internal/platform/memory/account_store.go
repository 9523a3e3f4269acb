package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/notes-api/internal/domain"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/service/auth"
	"github.com/phrazzld/notes-api/internal/store"
)

type accountRecord struct {
	account      domain.Account
	passwordHash string
}

// AccountStore is an in-process identity backend. It is safe for concurrent use.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*accountRecord
	byEmail  map[string]string

	passwords auth.PasswordHashVerifier
	tokens    auth.TokenService
	now       func() time.Time
	logger    *slog.Logger
}

var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an empty AccountStore. If log is nil, the
// default logger is used.
func NewAccountStore(
	passwords auth.PasswordHashVerifier,
	tokens auth.TokenService,
	log *slog.Logger,
) *AccountStore {
	if passwords == nil || tokens == nil {
		panic("passwords and tokens cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &AccountStore{
		accounts:  make(map[string]*accountRecord),
		byEmail:   make(map[string]string),
		passwords: passwords,
		tokens:    tokens,
		now:       time.Now,
		logger:    log.With(slog.String("component", "memory_account_store")),
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		log.Debug("account email already registered")
		return nil, store.ErrEmailExists
	}

	account := domain.Account{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: s.now().UTC(),
	}
	s.accounts[account.ID] = &accountRecord{account: account, passwordHash: hash}
	s.byEmail[email] = account.ID

	log.Debug("account created", slog.String("account_id", account.ID))
	result := account
	return &result, nil
}

// VerifyCredentials implements store.AccountStore.VerifyCredentials.
func (s *AccountStore) VerifyCredentials(
	ctx context.Context,
	email, password string,
) (*store.Credential, error) {
	email = domain.NormalizeEmail(email)

	s.mu.RLock()
	var record accountRecord
	id, ok := s.byEmail[email]
	if ok {
		record = *s.accounts[id]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, store.ErrInvalidCredentials
	}
	if err := s.passwords.Compare(record.passwordHash, password); err != nil {
		return nil, store.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueIDToken(ctx, record.account.ID, record.account.Email)
	if err != nil {
		return nil, err
	}

	return &store.Credential{
		AccountID: record.account.ID,
		Email:     record.account.Email,
		IDToken:   token,
		ExpiresAt: expiresAt,
	}, nil
}

// UpdateAccount implements store.AccountStore.UpdateAccount.
func (s *AccountStore) UpdateAccount(
	ctx context.Context,
	id string,
	update store.AccountUpdate,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var newEmail, newHash string
	if update.Email != nil {
		newEmail = domain.NormalizeEmail(*update.Email)
		if err := domain.ValidateEmail(newEmail); err != nil {
			return err
		}
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return err
		}
		hash, err := s.passwords.Hash(*update.Password)
		if err != nil {
			return err
		}
		newHash = hash
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)
	}

	if update.Email != nil && newEmail != record.account.Email {
		if owner, taken := s.byEmail[newEmail]; taken && owner != id {
			return store.ErrEmailExists
		}
		delete(s.byEmail, record.account.Email)
		s.byEmail[newEmail] = id
		record.account.Email = newEmail
	}
	if update.Password != nil {
		record.passwordHash = newHash
	}
	if update.DisplayName != nil {
		record.account.DisplayName = *update.DisplayName
	}

	log.Debug("account updated", slog.String("account_id", id))
	return nil
}

// DeleteAccount implements store.AccountStore.DeleteAccount.
func (s *AccountStore) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrAccountNotFound, id)
	}
	delete(s.byEmail, record.account.Email)
	delete(s.accounts, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("account deleted", slog.String("account_id", id))
	return nil
}

// ListAccounts implements store.AccountStore.ListAccounts.
func (s *AccountStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, record := range s.accounts {
		accounts = append(accounts, record.account)
	}
	return accounts, nil
}
