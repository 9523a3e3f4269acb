// Package mocks provides testify mock implementations of the store
// interfaces for tests that need to assert which collaborator calls happen,
// in what order, or that none happen at all.
//
// Usage:
//
//	accounts := &mocks.AccountStore{}
//	accounts.On("CreateAccount", mock.Anything, "ada@example.com", "secret1").
//	    Return(&domain.Account{ID: "u1", Email: "ada@example.com"}, nil)
//	defer accounts.AssertExpectations(t)
//
// For behavior-level tests prefer the in-memory backends in
// internal/platform/memory.
package mocks
