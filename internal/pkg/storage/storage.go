package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload stores an object under the container and returns its name
	Upload(ctx context.Context, file io.Reader, name string, contentType string) (string, error)

	// Download retrieves an object
	Download(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes an object
	Delete(ctx context.Context, name string) error

	// GetURL returns the public URL for an object
	GetURL(ctx context.Context, name string) (string, error)

	// Exists checks if an object exists
	Exists(ctx context.Context, name string) (bool, error)
}
