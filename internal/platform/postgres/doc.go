// Package postgres provides PostgreSQL implementations of the identity
// backend (store.AccountStore) and the document store (store.DocumentStore).
// Queries go through database/sql with the pgx stdlib driver; the schema is
// created by the goose migrations embedded in this package.
package postgres
