package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is returned by stores when a row addressed by id does not exist
// (or is not visible to the caller).
var ErrNotFound = errors.New("not found")

// Queryer/Execer/Getter let store helpers work with *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
type Getter interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	Queryer
	Execer
	Getter
}

// WithinTx runs fn in a transaction (commit on nil, rollback on error).
func WithinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// NotFound converts sql.ErrNoRows into ErrNotFound and passes other errors through.
func NotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// RequireAffected returns ErrNotFound when an UPDATE/DELETE touched no rows.
func RequireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE pattern matching s anywhere, with wildcards in s escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
