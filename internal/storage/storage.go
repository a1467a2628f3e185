// Package storage persists uploaded book documents. The local backend
// writes to a directory served under /uploads; the s3 backend talks to a
// MinIO/S3-compatible object store.
package storage

import (
	"context"
	"io"
)

// FileStore accepts a binary payload and returns a retrievable reference.
// Delete removes the underlying artifact; deleting a reference that no
// longer resolves is not an error.
type FileStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, fileURL string) error
}
