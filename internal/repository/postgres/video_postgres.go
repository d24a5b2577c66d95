package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vidapi/internal/model"
	"vidapi/internal/repository"
)

// VideoPostgres is a PostgreSQL implementation of repository.VideoRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type VideoPostgres struct {
	db *sql.DB
}

// NewVideoPostgres creates a new VideoPostgres repository.
func NewVideoPostgres(db *sql.DB) *VideoPostgres {
	return &VideoPostgres{db: db}
}

var _ repository.VideoRepository = (*VideoPostgres)(nil)

const videoColumns = `id, title, description, filename, content_type, size, views, tags, created_at`

// Insert stores a new video row under a freshly assigned UUID and returns the
// stored record.
func (r *VideoPostgres) Insert(ctx context.Context, v *model.Video) (*model.Video, error) {
	const q = `
		INSERT INTO videos (id, title, description, filename, content_type, size, views, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + videoColumns

	tags, err := json.Marshal(v.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	row := r.db.QueryRowContext(ctx, q,
		uuid.New().String(),
		v.Title,
		v.Description,
		v.Filename,
		v.ContentType,
		v.Size,
		v.Views,
		tags,
		v.CreatedAt,
	)
	return scanVideo(row)
}

// Find returns videos matching q (case-insensitive substring over title,
// description, or any tag). An empty q returns every row in insertion order.
func (r *VideoPostgres) Find(ctx context.Context, q string) ([]model.Video, error) {
	const query = `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE $1 = ''
		   OR title ILIKE '%' || $1 || '%'
		   OR description ILIKE '%' || $1 || '%'
		   OR EXISTS (
		        SELECT 1 FROM jsonb_array_elements_text(tags) AS tag
		        WHERE tag ILIKE '%' || $1 || '%'
		      )
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]model.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

// IncrementViews adds delta to the view counter in a single UPDATE ... RETURNING
// statement. Row-level locking makes the increment atomic under arbitrary
// concurrent callers; no compare-and-retry loop is needed here.
func (r *VideoPostgres) IncrementViews(ctx context.Context, id string, delta int64) (*model.Video, error) {
	const q = `
		UPDATE videos
		SET views = views + $2
		WHERE id = $1
		RETURNING ` + videoColumns

	v, err := scanVideo(r.db.QueryRowContext(ctx, q, id, delta))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*model.Video, error) {
	var (
		v           model.Video
		description sql.NullString
		tags        []byte
	)
	if err := s.Scan(
		&v.ID,
		&v.Title,
		&description,
		&v.Filename,
		&v.ContentType,
		&v.Size,
		&v.Views,
		&tags,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	v.Description = description.String
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &v.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return &v, nil
}
