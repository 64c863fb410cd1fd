package books

import (
	"context"
	"fmt"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

// AddFavorite marks the book as a favorite of the user. Adding an existing
// favorite is a no-op.
func (s *Store) AddFavorite(ctx context.Context, bookID, userID int64) (models.BookDetail, error) {
	ok, err := s.Exists(ctx, bookID)
	if err != nil {
		return models.BookDetail{}, err
	}
	if !ok {
		return models.BookDetail{}, dbx.ErrNotFound
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO book_favorites (book_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (book_id, user_id) DO NOTHING`, bookID, userID); err != nil {
		return models.BookDetail{}, fmt.Errorf("add favorite: %w", err)
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, bookID)
}

// RemoveFavorite drops the membership if present.
func (s *Store) RemoveFavorite(ctx context.Context, bookID, userID int64) error {
	ok, err := s.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return dbx.ErrNotFound
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM book_favorites WHERE book_id = $1 AND user_id = $2`, bookID, userID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Favorites lists the books the user has marked, ordered by title.
func (s *Store) Favorites(ctx context.Context, userID int64) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+Columns+`
		FROM books b
		JOIN book_favorites uf ON uf.book_id = b.id
		WHERE uf.user_id = $1
		ORDER BY b.title, b.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("favorites: %w", err)
	}
	return scanBooks(rows)
}
