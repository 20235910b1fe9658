package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload stores a file and returns its path/key
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Open retrieves a file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)
}
