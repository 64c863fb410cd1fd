package reviews

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewCols = []string{"id", "body", "book_id", "title", "reviewed_by", "username", "created_at"}

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestList_FullTextSearch(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`AND to_tsvector('english', r.body) @@ plainto_tsquery('english', $2) ORDER BY r.id`)).
		WithArgs(int64(1), "spice").
		WillReturnRows(sqlmock.NewRows(reviewCols).
			AddRow(3, "The spice must flow", 1, "Dune", 42, "Belletrix", time.Now()))

	got, err := s.List(context.Background(), 1, "  spice ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].BookTitle)
	require.NotNil(t, got[0].ReviewerUsername)
	assert.Equal(t, "Belletrix", *got[0].ReviewerUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DeletedReviewer(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.book_id = $1 ORDER BY r.id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow(3, "Great", 1, "Dune", nil, nil, time.Now()))

	got, err := s.List(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ReviewerID)
	assert.Nil(t, got[0].ReviewerUsername)
}

func TestCreate_DuplicateReview(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO book_reviews (body, book_id, reviewed_by)`)).
		WithArgs("again", int64(1), int64(42)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "unique_user_review"})

	_, err := s.Create(context.Background(), 1, 42, "again")
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "unique_user_review", pgErr.ConstraintName)
}

func TestCreate_MissingBook(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO book_reviews`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Create(context.Background(), 404, 42, "hello")
	assert.ErrorIs(t, err, dbx.ErrNotFound)
}

func TestCreateThenGet(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO book_reviews`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.id = $1`)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow(8, "hello", 1, "Dune", 42, "Belletrix", time.Now()))

	rv, err := s.Create(context.Background(), 1, 42, "hello")
	require.NoError(t, err)
	assert.EqualValues(t, 8, rv.ID)
	assert.EqualValues(t, 42, *rv.ReviewerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM book_reviews WHERE id = $1`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.Delete(context.Background(), 8))
}
