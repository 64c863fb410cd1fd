package auth

import (
	"context"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/security/password"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID              int64             `json:"pk"`
	Username        string            `json:"username"`
	Email           string            `json:"email"`
	IsSuperuser     bool              `json:"is_superuser"`
	PasswordWarning *password.Warning `json:"password_warning,omitempty"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsSuperuser: u.IsSuperuser}
}

type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string, superuser bool) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	BumpTokenVersion(ctx context.Context, id int64) (int, error)
}

// RefreshTokens is the server-side allowlist of refresh tokens.
type RefreshTokens interface {
	Issue(ctx context.Context, userID int64, tokenVersion int) (string, error)
	// Consume atomically removes a token and returns what it was issued for.
	Consume(ctx context.Context, token string) (userID int64, tokenVersion int, err error)
	Revoke(ctx context.Context, token string) error
}
