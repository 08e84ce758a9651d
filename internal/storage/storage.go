package storage

import (
	"context"
	"io"
)

// StorageInterface defines the interface for file storage backends. The
// only backend shipped today keeps files on the local filesystem, but
// photo uploads for assets, returns and complaints go through this
// interface so a cloud backend can be dropped in later.
type StorageInterface interface {
	// SaveFile stores the file under key and returns its public URL.
	SaveFile(ctx context.Context, key string, reader io.Reader) (string, error)

	// ReadFile opens a stored file for reading.
	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)

	// FileExists checks if a file exists and returns its size.
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage.
	DeleteFile(ctx context.Context, key string) error
}
