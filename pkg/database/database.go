package database

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by Create when the document ID is taken.
	ErrAlreadyExists = errors.New("document already exists")
)

// Query operators supported by QueryByField.
const (
	OpEqual         = "=="
	OpArrayContains = "array-contains"
)

// Document is a stored record together with its identity.
type Document struct {
	ID   string
	Path string // Slash separated path relative to the database root, e.g. "users/u1".
	Data map[string]interface{}
}

// Increment is a write value that adds N to the numeric field it is assigned to.
type Increment int64

// Store defines the document operations the repositories depend on.
// Collections may be nested paths such as "conversations/c1/messages".
type Store interface {
	Get(ctx context.Context, collection, docID string) (*Document, error)
	// Create writes a new document. An empty docID asks the store to generate one.
	// Returns the ID of the created document.
	Create(ctx context.Context, collection, docID string, data map[string]interface{}) (string, error)
	// Set replaces the whole document.
	Set(ctx context.Context, collection, docID string, data map[string]interface{}) error
	// Merge writes the given fields, creating the document if needed. Nested maps are merged.
	Merge(ctx context.Context, collection, docID string, data map[string]interface{}) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, docID string) error
	// DeleteFieldIfEqual removes field only while it still holds expected, reporting whether it did.
	DeleteFieldIfEqual(ctx context.Context, collection, docID, field string, expected interface{}) (bool, error)
	QueryByField(ctx context.Context, collection, field, op string, value interface{}) ([]*Document, error)
}
