package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/models"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
)

// UserLookup loads the current state of a token's user.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// TokenParser verifies access tokens.
type TokenParser interface {
	ParseAccess(token string) (*jwtutil.AccessClaims, error)
}

// RequireAuth verifies the Bearer JWT, checks token_version against the
// user's current one and injects the Actor into the context.
func RequireAuth(users UserLookup, tokens TokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				apperr.Unauthorized(w, r, "Authentication credentials were not provided.")
				return
			}
			tokenStr, err := bearer(raw)
			if err != nil {
				apperr.Unauthorized(w, r, "invalid Authorization header")
				return
			}
			claims, err := tokens.ParseAccess(tokenStr)
			if err != nil {
				apperr.Unauthorized(w, r, "invalid token")
				return
			}
			id, err := claims.UserID()
			if err != nil {
				apperr.Unauthorized(w, r, "invalid token")
				return
			}

			u, err := users.GetByID(r.Context(), id)
			if err != nil {
				apperr.Unauthorized(w, r, "user not found")
				return
			}
			if claims.TokenVersion != u.TokenVersion {
				apperr.Unauthorized(w, r, "token revoked")
				return
			}

			ctx := WithActor(r.Context(), Actor{ID: u.ID, Username: u.Username, IsSuperuser: u.IsSuperuser})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(h string) (string, error) {
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", errors.New("no bearer")
	}
	return strings.TrimSpace(tok), nil
}
