package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidapi/internal/model"
	"vidapi/internal/repository"
)

var videoCols = []string{"id", "title", "description", "filename", "content_type", "size", "views", "tags", "created_at"}

func TestVideoPostgres_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	v := &model.Video{
		Title:       "Trip",
		Description: "a trip",
		Filename:    "abc.mp4",
		ContentType: "video/mp4",
		Size:        123,
		Views:       0,
		Tags:        []string{"travel"},
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(videoCols).
		AddRow("gen-id", v.Title, v.Description, v.Filename, v.ContentType, v.Size, v.Views, []byte(`["travel"]`), now)

	mock.ExpectQuery("INSERT INTO videos").
		WithArgs(sqlmock.AnyArg(), v.Title, v.Description, v.Filename, v.ContentType, v.Size, v.Views, []byte(`["travel"]`), now).
		WillReturnRows(rows)

	stored, err := repo.Insert(ctx, v)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "gen-id", stored.ID)
	assert.Equal(t, []string{"travel"}, stored.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoPostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoPostgres(db)
	ctx := context.Background()

	t.Run("all records on empty query", func(t *testing.T) {
		rows := sqlmock.NewRows(videoCols).
			AddRow("id-1", "First", "", "a.mp4", "video/mp4", 10, 0, []byte(`[]`), time.Now()).
			AddRow("id-2", "Second", "desc", "b.mp4", "video/webm", 20, 3, []byte(`["x"]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM videos").
			WithArgs("").
			WillReturnRows(rows)

		videos, err := repo.Find(ctx, "")

		assert.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "id-1", videos[0].ID)
		assert.Equal(t, []string{}, videos[0].Tags)
		assert.Equal(t, []string{"x"}, videos[1].Tags)
	})

	t.Run("query passed to predicate", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM videos").
			WithArgs("cat").
			WillReturnRows(sqlmock.NewRows(videoCols))

		videos, err := repo.Find(ctx, "cat")

		assert.NoError(t, err)
		assert.Empty(t, videos)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoPostgres_IncrementViews(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoPostgres(db)
	ctx := context.Background()

	t.Run("returns post-increment record", func(t *testing.T) {
		rows := sqlmock.NewRows(videoCols).
			AddRow("id-1", "Clip", "", "a.mp4", "video/mp4", 10, 6, []byte(`[]`), time.Now())

		mock.ExpectQuery("UPDATE videos SET views = views").
			WithArgs("id-1", int64(1)).
			WillReturnRows(rows)

		v, err := repo.IncrementViews(ctx, "id-1", 1)

		assert.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, int64(6), v.Views)
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE videos SET views = views").
			WithArgs("missing", int64(1)).
			WillReturnError(sql.ErrNoRows)

		v, err := repo.IncrementViews(ctx, "missing", 1)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, v)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
