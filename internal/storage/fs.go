package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// fsStore implements BlobStore on the local filesystem. Each blob is one
// file in baseDir named key (UUID + extension hint). It is safe for
// concurrent use: keys never collide and writes publish atomically.
type fsStore struct {
	baseDir string
}

// NewFS creates a filesystem blob store rooted at baseDir, creating the
// directory if it does not exist.
func NewFS(baseDir string) (BlobStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &fsStore{baseDir: baseDir}, nil
}

// Put writes the content to a temporary file in baseDir and publishes it
// under the final key with an atomic rename, so a concurrent Get never sees
// a partial blob.
func (s *fsStore) Put(ctx context.Context, r io.Reader, extHint string) (string, int64, error) {
	key := uuid.New().String() + extHint

	tmp, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("close blob: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.baseDir, key)); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("publish blob: %w", err)
	}
	return key, n, nil
}

// Get opens the blob stored under key.
func (s *fsStore) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	// Reject path traversal in keys coming from the request path.
	if key != filepath.Base(key) {
		return nil, 0, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.baseDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open blob: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob: %w", err)
	}
	return f, st.Size(), nil
}
