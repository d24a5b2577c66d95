package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidapi/internal/model"
	"vidapi/internal/repository"
	"vidapi/internal/storage"
)

var (
	ErrInvalidContentType = errors.New("only video content types are allowed")
	ErrInvalidID          = errors.New("invalid video id")
	ErrNotFound           = errors.New("video not found")
	ErrReaderNil          = errors.New("reader is nil")
)

// VideoService defines the use cases for ingesting and retrieving videos.
type VideoService interface {
	// Upload validates the declared MIME type, writes the content to the blob
	// store, and inserts a metadata record. The stored size is the byte count
	// actually written, never a client-declared value. Title defaults to the
	// original filename when empty; tags is a comma-separated string.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType, title, description, tags string) (*model.Video, error)

	// List returns all videos, optionally narrowed by the free-text query q
	// (case-insensitive substring over title, description, and tags).
	List(ctx context.Context, q string) ([]model.Video, error)

	// View resolves a video by its string id, atomically increments its view
	// counter, and returns the post-increment record.
	View(ctx context.Context, id string) (*model.Video, error)

	// Stream returns the raw blob bytes for the given blob key (the video's
	// stored filename) together with the byte count.
	Stream(ctx context.Context, filename string) (io.ReadCloser, int64, error)
}

// videoService is a concrete implementation of VideoService.
type videoService struct {
	blobs storage.BlobStore
	repo  repository.VideoRepository
}

// NewVideoService constructs a new VideoService.
func NewVideoService(blobs storage.BlobStore, repo repository.VideoRepository) VideoService {
	return &videoService{blobs: blobs, repo: repo}
}

func (s *videoService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType, title, description, tags string) (*model.Video, error) {
	// Validation happens before any storage write, so a rejected upload
	// leaves no partial state.
	if r == nil {
		return nil, ErrReaderNil
	}
	if !strings.HasPrefix(contentType, "video/") {
		return nil, ErrInvalidContentType
	}

	key, size, err := s.blobs.Put(ctx, r, filepath.Ext(originalFilename))
	if err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}

	if title == "" {
		title = originalFilename
		if title == "" {
			title = "Untitled"
		}
	}

	v := &model.Video{
		Title:       title,
		Description: description,
		Filename:    key,
		ContentType: contentType,
		Size:        size,
		Views:       0,
		Tags:        model.ParseTags(tags),
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Insert(ctx, v)
	if err != nil {
		// The blob is not rolled back: there is no transaction spanning both
		// stores, so an insert failure leaves an orphaned blob behind.
		return nil, fmt.Errorf("insert metadata: %w", err)
	}
	return stored, nil
}

func (s *videoService) List(ctx context.Context, q string) ([]model.Video, error) {
	return s.repo.Find(ctx, q)
}

func (s *videoService) View(ctx context.Context, id string) (*model.Video, error) {
	// Malformed ids are rejected before any store access, distinct from a
	// well-formed id that simply has no record.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	v, err := s.repo.IncrementViews(ctx, id, 1)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *videoService) Stream(ctx context.Context, filename string) (io.ReadCloser, int64, error) {
	rc, size, err := s.blobs.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return rc, size, nil
}
