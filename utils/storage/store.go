// Package storage persists named chain documents. The server keeps one
// Store behind its session map; the CLI reads documents straight from
// disk and never touches this package.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named document does not exist.
var ErrNotFound = errors.New("chain document not found")

// Document is a stored chain spec in its serialized form. Body holds the
// canonical JSON encoding so the store never needs to understand the
// tree structure itself.
type Document struct {
	Name string
	Body []byte
}

// Store is the persistence interface for chain documents.
type Store interface {
	// List returns the names of all stored documents, sorted.
	List(ctx context.Context) ([]string, error)
	// Load fetches a document by name, or ErrNotFound.
	Load(ctx context.Context, name string) (*Document, error)
	// Save creates or overwrites a document.
	Save(ctx context.Context, doc *Document) error
	// Delete removes a document by name, or ErrNotFound.
	Delete(ctx context.Context, name string) error
	// Close releases any underlying resources.
	Close() error
}
