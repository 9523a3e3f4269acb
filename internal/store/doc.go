// Package store defines the capability interfaces for the two external
// collaborators of the notes API: an identity backend that owns account
// credentials (AccountStore) and a schemaless document store (DocumentStore).
// Business logic depends only on these interfaces, so concrete backends can
// be swapped for in-memory fakes in tests.
package store
