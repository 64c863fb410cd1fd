package models

import "time"

type User struct {
	ID           int64     `json:"pk"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarKey    *string   `json:"-"`
	IsSuperuser  bool      `json:"is_superuser"`
	TokenVersion int       `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
