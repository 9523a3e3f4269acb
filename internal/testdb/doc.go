// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests using it are skipped unless DATABASE_URL (or
// NOTES_TEST_DB_URL) is set.
package testdb
