package admin

import (
	"context"
	"time"
)

type UserRow struct {
	ID          int64     `json:"pk"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListFilter struct {
	Query     string
	Superuser *bool
	Limit     int
	Offset    int
}

type SetSuperuserRequest struct {
	IsSuperuser *bool `json:"is_superuser" validate:"required"`
}

type StatsResponse struct {
	UsersTotal     int `json:"users_total"`
	Superusers     int `json:"superusers"`
	BooksTotal     int `json:"books_total"`
	FeaturedBooks  int `json:"featured_books"`
	ReviewsTotal   int `json:"reviews_total"`
	RecordsTotal   int `json:"records_total"`
	SignupsLast24h int `json:"signups_last_24h"`
}

type Store interface {
	ListUsers(ctx context.Context, f ListFilter) ([]UserRow, int, error)
	GetUser(ctx context.Context, id int64) (UserRow, error)
	// SetSuperuser changes the flag and bumps token_version atomically.
	SetSuperuser(ctx context.Context, id int64, superuser bool) error
	BumpTokenVersion(ctx context.Context, id int64) error
	Stats(ctx context.Context) (StatsResponse, error)
}
