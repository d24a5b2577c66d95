package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains the blob store abstraction and its backends.
// Blobs are raw upload bytes stored under opaque, globally-unique keys;
// the store has no structural awareness of content.

// ErrNotFound is returned by Get when no blob exists under the given key.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists raw bytes under generated keys and serves them back.
//
// Put generates a collision-resistant unique key (never derived from the
// content, so identical uploads get distinct keys), writes the full content
// durably under that key combined with the extension hint, and returns the
// key together with the number of bytes actually written. The write must be
// atomic from a reader's perspective: a concurrent Get on the same key never
// observes a partially written blob.
//
// There is no delete and no deduplication; blob lifetime ends with the store.
type BlobStore interface {
	// Put streams r to durable storage and returns the generated key and the
	// exact byte count written.
	Put(ctx context.Context, r io.Reader, extHint string) (key string, size int64, err error)

	// Get retrieves the blob stored under key as a streaming reader along
	// with its size. It returns ErrNotFound for unknown keys.
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
}
