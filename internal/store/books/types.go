package books

import (
	"database/sql"

	"github.com/5w1tchy/library-api/internal/models"
)

// Filter holds the case-insensitive substring filters of the list and
// search endpoints. Empty fields are ignored.
type Filter struct {
	Title  string
	Author string
	Year   string
}

// Input is the full set of writable book fields (create and PUT).
type Input struct {
	Title           string
	Author          string
	PublicationYear *int
	Featured        bool
}

// Patch carries the fields a PATCH touches. SetYear distinguishes an explicit
// null publication_year from an absent one.
type Patch struct {
	Title           *string
	Author          *string
	SetYear         bool
	PublicationYear *int
	Featured        *bool
}

func (p Patch) apply(b models.Book) Input {
	in := Input{Title: b.Title, Author: b.Author, PublicationYear: b.PublicationYear, Featured: b.Featured}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Author != nil {
		in.Author = *p.Author
	}
	if p.SetYear {
		in.PublicationYear = p.PublicationYear
	}
	if p.Featured != nil {
		in.Featured = *p.Featured
	}
	return in
}

// Columns selects a book aliased as b, with its favorite count.
const Columns = `b.id, b.title, b.author, b.publication_year, b.featured,
  (SELECT COUNT(*) FROM book_favorites f WHERE f.book_id = b.id),
  b.created_at, b.updated_at`

// Row scans the Columns of one book, including its nullable fields.
type Row struct {
	models.Book
	year    sql.NullInt32
	updated sql.NullTime
}

func (r *Row) Dest() []any {
	return []any{&r.ID, &r.Title, &r.Author, &r.year, &r.Featured, &r.FavoriteCount, &r.CreatedAt, &r.updated}
}

func (r *Row) Value() models.Book {
	b := r.Book
	if r.year.Valid {
		y := int(r.year.Int32)
		b.PublicationYear = &y
	}
	if r.updated.Valid {
		t := r.updated.Time
		b.UpdatedAt = &t
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(s rowScanner) (models.Book, error) {
	var r Row
	if err := s.Scan(r.Dest()...); err != nil {
		return models.Book{}, err
	}
	return r.Value(), nil
}

func scanBooks(rows *sql.Rows) ([]models.Book, error) {
	defer rows.Close()
	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
