package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no blob exists under the given name.
var ErrNotFound = errors.New("storage: blob not found")

// Object is a blob returned by Get. The caller must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	ETag          string
}

// Storage abstracts the blob store holding contact photos.
// Implementations: Azure Blob Storage for production, local filesystem for
// development, swappable without touching the lifecycle service.
type Storage interface {
	// Put writes the blob under name, overwriting any existing blob
	// (last writer wins).
	Put(ctx context.Context, name string, data io.Reader, contentType string) error

	// Get returns the blob under name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Object, error)

	// Delete removes the blob under name. Deleting a name that does not
	// exist is success, not an error.
	Delete(ctx context.Context, name string) error
}
