package books

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/5w1tchy/library-api/internal/testutil/redisfake"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedStore(t *testing.T) (*Store, sqlmock.Sqlmock, *redisfake.Server) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rdb, srv := redisfake.New()
	t.Cleanup(func() { rdb.Close() })
	return New(db, NewCache(rdb, time.Minute)), mock, srv
}

func expectFeatured(mock sqlmock.Sqlmock, titles ...string) {
	rows := sqlmock.NewRows(bookCols)
	for i, title := range titles {
		bookRow(rows, int64(i+1), title, "Frank Herbert", nil, 0)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.featured`)).WillReturnRows(rows)
}

func TestFeatured_ServedFromCacheUntilInvalidated(t *testing.T) {
	s, mock, srv := cachedStore(t)
	ctx := context.Background()

	expectFeatured(mock, "Dune")
	got, err := s.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// no query expected: the second read is a cache hit
	got, err = s.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, srv.Keys(), "books:v0:featured")

	// first invalidation after a cold start must move off the initial version
	s.cache.Invalidate(ctx)
	expectFeatured(mock)
	got, err = s.Featured(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeatured_ReadRacingAWriteIsNotCachedUnderNewVersion(t *testing.T) {
	s, mock, srv := cachedStore(t)
	ctx := context.Background()
	srv.Set(versionKey, "5")

	bumped := false
	srv.BeforeCommand = func(name string, args []any) {
		// a writer commits and bumps the version while this read is in flight
		if name == "get" && args[1] == "books:v5:featured" && !bumped {
			bumped = true
			srv.Incr(versionKey)
		}
	}

	expectFeatured(mock, "Dune")
	got, err := s.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NotContains(t, srv.Keys(), "books:v6:featured")

	expectFeatured(mock)
	got, err = s.Featured(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWritesInvalidateFeatured(t *testing.T) {
	s, mock, srv := cachedStore(t)
	ctx := context.Background()

	expectFeatured(mock, "Dune")
	_, err := s.Featured(ctx)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, time.Now()))
	_, err = s.Create(ctx, Input{Title: "Emma", Author: "Jane Austen", Featured: true})
	require.NoError(t, err)
	v, _ := srv.Get(versionKey)
	assert.Equal(t, "1", v)

	expectFeatured(mock, "Dune", "Emma")
	got, err := s.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(ctx, 2))

	expectFeatured(mock, "Dune")
	got, err = s.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
