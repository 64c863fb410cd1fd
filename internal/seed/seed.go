// Package seed fills a development database with sample data and creates the
// initial superuser for deployed environments.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/security/password"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/records"
	"github.com/5w1tchy/library-api/internal/store/users"
)

const (
	DemoUsername     = "Belletrix"
	DefaultSuperuser = "admin"
	defaultPassword  = "badpassword"
)

var (
	ErrNotDevelopment = errors.New("sample data is only loaded when APP_ENV=development")
	ErrDevelopment    = errors.New("the superuser command does not run when APP_ENV=development")
)

type sampleBook struct {
	Title  string
	Author string
	Year   int
}

var sampleBooks = []sampleBook{
	{"The Countess of Pembroke's Arcadia", "Philip Sidney", 1593},
	{"The Anatomy of Melancholy", "Robert Burton", 1621},
	{"Paradise Lost", "John Milton", 1667},
	{"The Starry Messenger", "Galileo Galilei", 1610},
}

type Seeder struct {
	db      *sql.DB
	users   *users.Store
	records *records.Store
	hasher  *password.Hasher
	pick    func(n int) int
	log     *slog.Logger
}

func New(db *sql.DB, hasher *password.Hasher) *Seeder {
	return &Seeder{
		db:      db,
		users:   users.New(db),
		records: records.New(db),
		hasher:  hasher,
		pick:    rand.IntN,
		log:     slog.Default().With("component", "seed"),
	}
}

// Result reports what a Dev run created; existing rows are left alone.
type Result struct {
	BooksCreated int
	UserCreated  bool
	UserID       int64
}

// Dev loads the sample books, the demo reader and a reading record with a
// random state on the first and last book. Running it twice is harmless.
func (s *Seeder) Dev(ctx context.Context, appEnv string) (Result, error) {
	if appEnv != "development" {
		return Result{}, ErrNotDevelopment
	}
	var res Result

	for _, b := range sampleBooks {
		r, err := s.db.ExecContext(ctx, `
			INSERT INTO books (title, author, publication_year)
			VALUES ($1, $2, $3)
			ON CONFLICT ON CONSTRAINT unique_by_author DO NOTHING`, b.Title, b.Author, b.Year)
		if err != nil {
			return res, fmt.Errorf("seed book %q: %w", b.Title, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.BooksCreated++
		}
	}

	u, created, err := s.getOrCreateUser(ctx, DemoUsername, defaultPassword, false)
	if err != nil {
		return res, err
	}
	res.UserID, res.UserCreated = u.ID, created

	var first, last int64
	if err := s.db.QueryRowContext(ctx, `SELECT MIN(id), MAX(id) FROM books`).Scan(&first, &last); err != nil {
		return res, fmt.Errorf("seed book range: %w", err)
	}
	states := models.ReadingStates()
	for _, bookID := range []int64{first, last} {
		state := states[s.pick(len(states))]
		if err := s.records.Seed(ctx, bookID, u.ID, state); err != nil {
			return res, fmt.Errorf("seed record: %w", err)
		}
	}

	s.log.Info("objects added to database", "books_created", res.BooksCreated, "user_created", res.UserCreated)
	return res, nil
}

// Superuser creates the "admin" superuser with an empty email unless it
// exists. created is false when the account was already there.
func (s *Seeder) Superuser(ctx context.Context, appEnv string) (created bool, err error) {
	if appEnv == "development" {
		return false, ErrDevelopment
	}
	_, created, err = s.getOrCreateUser(ctx, DefaultSuperuser, defaultPassword, true)
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("superuser added to database", "username", DefaultSuperuser)
	} else {
		s.log.Warn("superuser already exists", "username", DefaultSuperuser)
	}
	return created, nil
}

func (s *Seeder) getOrCreateUser(ctx context.Context, username, pwd string, superuser bool) (models.User, bool, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, dbx.ErrNotFound) {
		return models.User{}, false, err
	}
	hash, err := s.hasher.Hash(pwd)
	if err != nil {
		return models.User{}, false, err
	}
	u, err = s.users.Create(ctx, username, "", hash, superuser)
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}
