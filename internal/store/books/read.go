package books

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

func getBook(ctx context.Context, g dbx.Getter, id int64) (models.Book, error) {
	b, err := scanBook(g.QueryRowContext(ctx, `SELECT `+Columns+` FROM books b WHERE b.id = $1`, id))
	if err != nil {
		return models.Book{}, dbx.NotFound(err)
	}
	return b, nil
}

// Get returns a book with the ids of its reviews and its title page key.
func (s *Store) Get(ctx context.Context, id int64) (models.BookDetail, error) {
	var (
		r         Row
		titlePage sql.NullString
	)
	dest := append(r.Dest(), &titlePage)
	if err := s.db.QueryRowContext(ctx, `SELECT `+Columns+`, b.title_page FROM books b WHERE b.id = $1`, id).Scan(dest...); err != nil {
		return models.BookDetail{}, dbx.NotFound(err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM book_reviews WHERE book_id = $1 ORDER BY id`, id)
	if err != nil {
		return models.BookDetail{}, fmt.Errorf("book reviews: %w", err)
	}
	defer rows.Close()

	d := models.BookDetail{Book: r.Value(), ReviewIDs: []int64{}}
	if titlePage.Valid && titlePage.String != "" {
		d.TitlePageKey = &titlePage.String
	}
	for rows.Next() {
		var rid int64
		if err := rows.Scan(&rid); err != nil {
			return models.BookDetail{}, err
		}
		d.ReviewIDs = append(d.ReviewIDs, rid)
	}
	return d, rows.Err()
}

// Exists reports whether a book with id exists.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// SetTitlePage stores the title page object key and returns the key it
// replaced, if any.
func (s *Store) SetTitlePage(ctx context.Context, id int64, key string) (*string, error) {
	var prev sql.NullString
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT title_page FROM books WHERE id = $1 FOR UPDATE`, id).Scan(&prev); err != nil {
			return dbx.NotFound(err)
		}
		_, err := tx.ExecContext(ctx, `UPDATE books SET title_page = $1, updated_at = now() WHERE id = $2`, key, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !prev.Valid || prev.String == "" {
		return nil, nil
	}
	return &prev.String, nil
}
