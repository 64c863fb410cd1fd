// Package users is the SQL store for accounts.
package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

const columns = `id, username, email, password_hash, avatar, is_superuser,
       COALESCE(token_version, 1), created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var avatar sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &avatar,
		&u.IsSuperuser, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, dbx.NotFound(err)
	}
	if avatar.Valid && avatar.String != "" {
		u.AvatarKey = &avatar.String
	}
	return u, nil
}

// Create inserts an account. A taken username surfaces as the
// users_username_key constraint violation.
func (s *Store) Create(ctx context.Context, username, email, passwordHash string, superuser bool) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_superuser)
		VALUES ($1, $2, $3, $4)
		RETURNING `+columns, username, email, passwordHash, superuser))
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE username = $1`, username))
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&ok)
	return ok, err
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return dbx.RequireAffected(res)
}

// SetAvatar stores the new avatar key and returns the previous one, if any.
func (s *Store) SetAvatar(ctx context.Context, id int64, key string) (*string, error) {
	var prev sql.NullString
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&prev); err != nil {
			return dbx.NotFound(err)
		}
		_, err := tx.ExecContext(ctx, `UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`, key, id)
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

// BumpTokenVersion invalidates every access token issued so far for the user.
func (s *Store) BumpTokenVersion(ctx context.Context, id int64) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET token_version = token_version + 1, updated_at = now()
		WHERE id = $1
		RETURNING token_version`, id).Scan(&v)
	return v, dbx.NotFound(err)
}
