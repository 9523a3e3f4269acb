// Package memory provides in-process implementations of store.AccountStore
// and store.DocumentStore. They back local development and serve as fakes
// in tests; nothing is persisted across restarts.
package memory
