package books

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

// Create inserts a book. A duplicate (title, author) surfaces as the
// unique_by_author constraint violation.
func (s *Store) Create(ctx context.Context, in Input) (models.Book, error) {
	b := models.Book{Title: in.Title, Author: in.Author, PublicationYear: in.PublicationYear, Featured: in.Featured}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO books (title, author, publication_year, featured)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		in.Title, in.Author, in.PublicationYear, in.Featured,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}
	s.cache.Invalidate(ctx)
	return b, nil
}

// Replace overwrites every writable field of a book.
func (s *Store) Replace(ctx context.Context, id int64, in Input) (models.Book, error) {
	var out models.Book
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = update(ctx, tx, id, in)
		return err
	})
	if err != nil {
		return models.Book{}, err
	}
	s.cache.Invalidate(ctx)
	return out, nil
}

// Patch updates only the fields present in p. The current row is locked
// while the merged values are written.
func (s *Store) Patch(ctx context.Context, id int64, p Patch) (models.Book, error) {
	var out models.Book
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, err := scanBook(tx.QueryRowContext(ctx, `SELECT `+Columns+` FROM books b WHERE b.id = $1 FOR UPDATE`, id))
		if err != nil {
			return dbx.NotFound(err)
		}
		out, err = update(ctx, tx, id, p.apply(cur))
		return err
	})
	if err != nil {
		return models.Book{}, err
	}
	s.cache.Invalidate(ctx)
	return out, nil
}

func update(ctx context.Context, tx *sql.Tx, id int64, in Input) (models.Book, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE books
		   SET title = $1, author = $2, publication_year = $3, featured = $4, updated_at = now()
		 WHERE id = $5`,
		in.Title, in.Author, in.PublicationYear, in.Featured, id,
	)
	if err != nil {
		return models.Book{}, fmt.Errorf("update book: %w", err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		return models.Book{}, err
	}
	return getBook(ctx, tx, id)
}

// Delete removes a book; its records, reviews and favorites cascade.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}
