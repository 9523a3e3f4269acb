// Package mongo provides a MongoDB implementation of store.DocumentStore.
// Each document collection maps to a Mongo collection of the same name and
// the document id is stored as _id.
package mongo
