// Package domain contains the core entities of the notes API: accounts and
// the notes they own. It also defines how those entities are laid out as
// schemaless documents, since both live in an external document store rather
// than in tables owned by this service.
package domain
