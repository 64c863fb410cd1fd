package jwtutil

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims carries the user's token_version so bumping it in the
// database revokes every outstanding access token.
type AccessClaims struct {
	TokenVersion int  `json:"tv"`
	Superuser    bool `json:"su,omitempty"`
	jwt.RegisteredClaims
}

func NewAccessClaims(userID int64, jti string, tokenVersion int, superuser bool, now time.Time, ttl time.Duration) AccessClaims {
	return AccessClaims{
		TokenVersion: tokenVersion,
		Superuser:    superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// UserID parses the numeric subject.
func (c AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
