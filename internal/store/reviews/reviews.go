// Package reviews is the SQL store for book reviews, including full-text
// search over review bodies.
package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

const selectReviews = `
SELECT r.id, r.body, r.book_id, b.title, r.reviewed_by, u.username, r.created_at
FROM book_reviews r
JOIN books b ON b.id = r.book_id
LEFT JOIN users u ON u.id = r.reviewed_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(s rowScanner) (models.BookReview, error) {
	var rv models.BookReview
	var reviewer sql.NullInt64
	var username sql.NullString
	if err := s.Scan(&rv.ID, &rv.Body, &rv.BookID, &rv.BookTitle, &reviewer, &username, &rv.CreatedAt); err != nil {
		return models.BookReview{}, err
	}
	if reviewer.Valid {
		id := reviewer.Int64
		rv.ReviewerID = &id
	}
	if username.Valid {
		rv.ReviewerUsername = &username.String
	}
	return rv, nil
}

// List returns the reviews of a book, oldest first. A non-empty search is
// matched against the body with English full-text search. A missing book
// yields an empty list.
func (s *Store) List(ctx context.Context, bookID int64, search string) ([]models.BookReview, error) {
	q := selectReviews + ` WHERE r.book_id = $1`
	args := []any{bookID}
	if search = strings.TrimSpace(search); search != "" {
		args = append(args, search)
		q += ` AND to_tsvector('english', r.body) @@ plainto_tsquery('english', $2)`
	}
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY r.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := []models.BookReview{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (models.BookReview, error) {
	rv, err := scanReview(s.db.QueryRowContext(ctx, selectReviews+` WHERE r.id = $1`, id))
	if err != nil {
		return models.BookReview{}, dbx.NotFound(err)
	}
	return rv, nil
}

// Create stores a review by reviewerID. ErrNotFound when the book does not
// exist; a second review of the same book by the same user surfaces as the
// unique_user_review violation.
func (s *Store) Create(ctx context.Context, bookID, reviewerID int64, body string) (models.BookReview, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO book_reviews (body, book_id, reviewed_by)
		SELECT $1, b.id, $3 FROM books b WHERE b.id = $2
		RETURNING id`, body, bookID, reviewerID).Scan(&id)
	if err != nil {
		return models.BookReview{}, fmt.Errorf("insert review: %w", dbx.NotFound(err))
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM book_reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return dbx.RequireAffected(res)
}
