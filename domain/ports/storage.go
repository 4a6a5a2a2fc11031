package ports

import (
	"context"
	"io"
)

// FileInfo describes a stored object.
type FileInfo struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// StoragePort abstracts where task attachments live (local disk or
// S3-compatible object storage).
type StoragePort interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*FileInfo, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
