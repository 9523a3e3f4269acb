package mocks

import (
	"context"

	"github.com/phrazzld/notes-api/internal/domain"
	"github.com/phrazzld/notes-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// AccountStore is a testify mock of store.AccountStore.
type AccountStore struct {
	mock.Mock
}

var _ store.AccountStore = (*AccountStore)(nil)

// CreateAccount is a mock implementation of store.AccountStore.CreateAccount
func (m *AccountStore) CreateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	args := m.Called(ctx, email, password)
	if account, ok := args.Get(0).(*domain.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

// VerifyCredentials is a mock implementation of store.AccountStore.VerifyCredentials
func (m *AccountStore) VerifyCredentials(ctx context.Context, email, password string) (*store.Credential, error) {
	args := m.Called(ctx, email, password)
	if cred, ok := args.Get(0).(*store.Credential); ok {
		return cred, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateAccount is a mock implementation of store.AccountStore.UpdateAccount
func (m *AccountStore) UpdateAccount(ctx context.Context, id string, update store.AccountUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// DeleteAccount is a mock implementation of store.AccountStore.DeleteAccount
func (m *AccountStore) DeleteAccount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListAccounts is a mock implementation of store.AccountStore.ListAccounts
func (m *AccountStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if accounts, ok := args.Get(0).([]domain.Account); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}
