// Package records stores per-reader reading states. Every query is scoped to
// one (book, reader) pair, so records of other readers are never visible.
package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

const selectRecords = `
SELECT r.id, r.reading_state, r.reader_id, u.username, r.created_at, r.updated_at,
  ` + books.Columns + `
FROM book_records r
JOIN books b ON b.id = r.book_id
JOIN users u ON u.id = r.reader_id
WHERE r.book_id = $1 AND r.reader_id = $2`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (models.BookRecord, error) {
	var rec models.BookRecord
	var updated sql.NullTime
	var br books.Row
	dest := append([]any{&rec.ID, &rec.ReadingState, &rec.ReaderID, &rec.ReaderUsername, &rec.CreatedAt, &updated}, br.Dest()...)
	if err := s.Scan(dest...); err != nil {
		return models.BookRecord{}, err
	}
	if updated.Valid {
		t := updated.Time
		rec.UpdatedAt = &t
	}
	rec.Book = br.Value()
	return rec, nil
}

func (s *Store) List(ctx context.Context, bookID, readerID int64) ([]models.BookRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+` ORDER BY r.id`, bookID, readerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := []models.BookRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, bookID, readerID, id int64) (models.BookRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecords+` AND r.id = $3`, bookID, readerID, id))
	if err != nil {
		return models.BookRecord{}, dbx.NotFound(err)
	}
	return rec, nil
}

// Create adds the reader's record for a book. ErrNotFound when the book does
// not exist; a second record for the same pair surfaces as the
// unique_book_record_for_user violation.
func (s *Store) Create(ctx context.Context, bookID, readerID int64, state models.ReadingState) (models.BookRecord, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO book_records (book_id, reader_id, reading_state)
		SELECT b.id, $2, $3 FROM books b WHERE b.id = $1
		RETURNING id`, bookID, readerID, string(state)).Scan(&id)
	if err != nil {
		return models.BookRecord{}, fmt.Errorf("insert record: %w", dbx.NotFound(err))
	}
	return s.Get(ctx, bookID, readerID, id)
}

func (s *Store) UpdateState(ctx context.Context, bookID, readerID, id int64, state models.ReadingState) (models.BookRecord, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE book_records SET reading_state = $1, updated_at = now()
		WHERE id = $2 AND book_id = $3 AND reader_id = $4`,
		string(state), id, bookID, readerID)
	if err != nil {
		return models.BookRecord{}, fmt.Errorf("update record: %w", err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		return models.BookRecord{}, err
	}
	return s.Get(ctx, bookID, readerID, id)
}

func (s *Store) Delete(ctx context.Context, bookID, readerID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM book_records WHERE id = $1 AND book_id = $2 AND reader_id = $3`, id, bookID, readerID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return dbx.RequireAffected(res)
}

// Seed inserts a record for (book, reader) unless one exists.
func (s *Store) Seed(ctx context.Context, bookID, readerID int64, state models.ReadingState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO book_records (book_id, reader_id, reading_state)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT unique_book_record_for_user DO NOTHING`,
		bookID, readerID, string(state))
	return err
}
