// Package storage wraps the external object store behind a small
// interface: upload a file under a bucket path and get a public URL
// back, or delete it. Cover images and block attachments go through
// here.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the shared surface for object storage backends.
type ObjectStore interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, bucket, path string, body io.Reader) (string, error)
	Delete(ctx context.Context, bucket, path string) error
}
