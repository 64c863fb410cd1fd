package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

func buildWhere(f Filter) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if f.Title != "" {
		args = append(args, dbx.Contains(f.Title))
		clauses = append(clauses, fmt.Sprintf("b.title ILIKE $%d", len(args)))
	}
	if f.Author != "" {
		args = append(args, dbx.Contains(f.Author))
		clauses = append(clauses, fmt.Sprintf("b.author ILIKE $%d", len(args)))
	}
	if f.Year != "" {
		args = append(args, dbx.Contains(f.Year))
		clauses = append(clauses, fmt.Sprintf("CAST(b.publication_year AS TEXT) ILIKE $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one page of books ordered by title, and the filtered total.
func (s *Store) List(ctx context.Context, f Filter, limit, offset int) ([]models.Book, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books b `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM books b %s ORDER BY b.title, b.id LIMIT $%d OFFSET $%d`, Columns, where, n+1, n+2)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	out, err := scanBooks(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan books: %w", err)
	}
	return out, total, nil
}

// Search applies the same filters as List without paging.
func (s *Store) Search(ctx context.Context, f Filter) ([]models.Book, error) {
	where, args := buildWhere(f)
	rows, err := s.db.QueryContext(ctx, `SELECT `+Columns+` FROM books b `+where+` ORDER BY b.title, b.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return scanBooks(rows)
}

// Featured lists featured books, served from the cache when possible.
func (s *Store) Featured(ctx context.Context) ([]models.Book, error) {
	prefix, cacheable := s.cache.prefix(ctx)
	var cached []models.Book
	if cacheable && s.cache.get(ctx, prefix, "featured", &cached) {
		return cached, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+Columns+` FROM books b WHERE b.featured ORDER BY b.title, b.id`)
	if err != nil {
		return nil, fmt.Errorf("featured books: %w", err)
	}
	out, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.set(ctx, prefix, "featured", out)
	}
	return out, nil
}
