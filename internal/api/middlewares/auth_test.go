package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/models"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[int64]models.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f[id]
	if !ok {
		return models.User{}, dbx.ErrNotFound
	}
	return u, nil
}

func TestRequireAuth(t *testing.T) {
	signer := jwtutil.NewSigner(config.AuthConfig{JWTSecret: strings.Repeat("s", 32), AccessTTL: time.Minute})
	users := fakeUsers{
		7: {ID: 7, Username: "Belletrix", TokenVersion: 2},
	}

	var seen mw.Actor
	h := mw.RequireAuth(users, signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = mw.ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	valid, _, err := signer.SignAccess(7, 2, false)
	require.NoError(t, err)
	stale, _, err := signer.SignAccess(7, 1, false)
	require.NoError(t, err)
	ghost, _, err := signer.SignAccess(99, 1, false)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"revoked", "Bearer " + stale, http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, c.want, rec.Code, c.name)
	}
	assert.Equal(t, mw.Actor{ID: 7, Username: "Belletrix"}, seen)
}
