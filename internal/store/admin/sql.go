package adminstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	admin "github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) admin.Store { return &Store{db: db} }

func buildListUsersQuery(f admin.ListFilter) (where string, args []any) {
	clauses := make([]string, 0, 2)
	if f.Query != "" {
		args = append(args, dbx.Contains(f.Query))
		clauses = append(clauses, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if f.Superuser != nil {
		args = append(args, *f.Superuser)
		clauses = append(clauses, fmt.Sprintf("is_superuser = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) ListUsers(ctx context.Context, f admin.ListFilter) ([]admin.UserRow, int, error) {
	where, args := buildListUsersQuery(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	argsWithPage := append(append([]any{}, args...), f.Limit, f.Offset)
	listSQL := `
SELECT id, username, email, is_superuser, created_at
FROM users
` + where + `
ORDER BY id
LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	rows, err := s.db.QueryContext(ctx, listSQL, argsWithPage...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]admin.UserRow, 0, f.Limit)
	for rows.Next() {
		var u admin.UserRow
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsSuperuser, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (admin.UserRow, error) {
	const q = `SELECT id, username, email, is_superuser, created_at FROM users WHERE id = $1`
	var u admin.UserRow
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Username, &u.Email, &u.IsSuperuser, &u.CreatedAt); err != nil {
		return admin.UserRow{}, dbx.NotFound(err)
	}
	return u, nil
}

// SetSuperuser changes the flag and bumps token_version in one transaction:
// tokens carrying the old su claim stop working exactly when the flag flips.
func (s *Store) SetSuperuser(ctx context.Context, id int64, superuser bool) error {
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		const q = `UPDATE users SET is_superuser = $1, updated_at = now() WHERE id = $2`
		res, err := tx.ExecContext(ctx, q, superuser, id)
		if err != nil {
			return fmt.Errorf("set superuser: %w", err)
		}
		if err := dbx.RequireAffected(res); err != nil {
			return err
		}
		return bumpTokenVersion(ctx, tx, id)
	})
}

func (s *Store) BumpTokenVersion(ctx context.Context, id int64) error {
	return bumpTokenVersion(ctx, s.db, id)
}

func bumpTokenVersion(ctx context.Context, ex dbx.Execer, id int64) error {
	const q = `UPDATE users SET token_version = COALESCE(token_version,1) + 1 WHERE id = $1`
	res, err := ex.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	return dbx.RequireAffected(res)
}

// Stats gathers the dashboard counters in one round trip.
func (s *Store) Stats(ctx context.Context) (admin.StatsResponse, error) {
	const q = `
SELECT
  (SELECT COUNT(*) FROM users),
  (SELECT COUNT(*) FROM users WHERE is_superuser),
  (SELECT COUNT(*) FROM books),
  (SELECT COUNT(*) FROM books WHERE featured),
  (SELECT COUNT(*) FROM book_reviews),
  (SELECT COUNT(*) FROM book_records),
  (SELECT COUNT(*) FROM users WHERE created_at >= now() - interval '24 hours')`
	var st admin.StatsResponse
	err := s.db.QueryRowContext(ctx, q).Scan(
		&st.UsersTotal, &st.Superusers, &st.BooksTotal, &st.FeaturedBooks,
		&st.ReviewsTotal, &st.RecordsTotal, &st.SignupsLast24h,
	)
	if err != nil {
		return admin.StatsResponse{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
