package jwtutil

import (
	"errors"
	"time"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Signer struct {
	secret    []byte
	accessTTL time.Duration
	leeway    time.Duration
	now       func() time.Time
}

func NewSigner(cfg config.AuthConfig) *Signer {
	return &Signer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTTL,
		leeway:    cfg.ClockSkew,
		now:       time.Now,
	}
}

func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

// SignAccess returns (tokenString, jti).
func (s *Signer) SignAccess(userID int64, tokenVersion int, superuser bool) (string, string, error) {
	jti := uuid.NewString()
	claims := NewAccessClaims(userID, jti, tokenVersion, superuser, s.now(), s.accessTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	return signed, jti, err
}

// ParseAccess verifies the HS256 signature and expiry (with leeway).
func (s *Signer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(s.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
