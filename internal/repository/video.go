package repository

import (
	"context"
	"errors"

	"vidapi/internal/model"
)

// Package repository contains the metadata store abstractions.
// Implementations live in subpackages (postgres, memory).

// ErrNotFound is returned when no video record exists for the given id.
var ErrNotFound = errors.New("video not found")

// VideoRepository defines persistence for video metadata. No business logic
// here — strictly record operations.
//
// Views are mutated only through IncrementViews; there is no general update
// path and no delete.
type VideoRepository interface {
	// Insert stores a new video record, assigning a unique id. The caller
	// never supplies the id. Returns the stored record.
	Insert(ctx context.Context, v *model.Video) (*model.Video, error)

	// Find returns all records matching the optional free-text query q as a
	// case-insensitive substring of title, description, or any tag. An empty
	// q returns all records in insertion order; callers must not depend on
	// any ordering beyond that.
	Find(ctx context.Context, q string) ([]model.Video, error)

	// IncrementViews atomically adds delta to the view counter of the record
	// with the given id and returns the post-increment record in one
	// indivisible step. Concurrent callers on the same id never lose an
	// increment. Returns ErrNotFound if no record exists.
	IncrementViews(ctx context.Context, id string, delta int64) (*model.Video, error)
}
