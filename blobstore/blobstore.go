package blobstore

import (
	"context"
	"time"
)

// BlobStore is the key-addressed binary object store holding project images.
// Keys are opaque hex strings generated by the server. Reads happen through
// time-limited signed URLs only; raw keys are never handed to clients.
//
// Implementations are constructed once at startup and injected into the
// workflow service, so tests can substitute an in-memory double.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
