package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"vidapi/internal/model"
	"vidapi/internal/repository"
)

// VideoMemory is an in-process implementation of repository.VideoRepository.
// It backs the service when no database is configured and is used heavily in
// tests. Records are kept in insertion order; the mutex serializes the
// increment path so concurrent view counts never lose an update.
type VideoMemory struct {
	mu     sync.Mutex
	order  []string
	videos map[string]*model.Video
}

// NewVideoMemory creates an empty in-memory video repository.
func NewVideoMemory() *VideoMemory {
	return &VideoMemory{videos: make(map[string]*model.Video)}
}

var _ repository.VideoRepository = (*VideoMemory)(nil)

// Insert stores a copy of v under a freshly assigned UUID.
func (r *VideoMemory) Insert(ctx context.Context, v *model.Video) (*model.Video, error) {
	stored := *v
	stored.ID = uuid.New().String()

	r.mu.Lock()
	r.videos[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	out := stored
	return &out, nil
}

// Find returns matching records in insertion order.
func (r *VideoMemory) Find(ctx context.Context, q string) ([]model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	videos := make([]model.Video, 0, len(r.order))
	for _, id := range r.order {
		if v := r.videos[id]; v.Matches(q) {
			videos = append(videos, *v)
		}
	}
	return videos, nil
}

// IncrementViews adds delta to the counter under the store mutex, making the
// read-modify-write indivisible for concurrent callers on the same id.
func (r *VideoMemory) IncrementViews(ctx context.Context, id string, delta int64) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v.Views += delta
	out := *v
	return &out, nil
}
