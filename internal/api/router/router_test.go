package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/api/handlers/bookrecords"
	"github.com/5w1tchy/library-api/internal/api/handlers/books"
	"github.com/5w1tchy/library-api/internal/api/handlers/reviews"
	"github.com/5w1tchy/library-api/internal/api/handlers/users"
	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/auth"
	"github.com/stretchr/testify/assert"
)

// testAuth trusts X-Test-User (id) and X-Test-Super headers.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get("X-Test-User"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		a := mw.Actor{ID: id, IsSuperuser: r.Header.Get("X-Test-Super") == "1"}
		next.ServeHTTP(w, r.WithContext(mw.WithActor(r.Context(), a)))
	})
}

func testRouter() http.Handler {
	return Router(Deps{
		Auth:        auth.New(nil, nil, nil, nil),
		Books:       books.New(nil, nil),
		Records:     bookrecords.New(nil),
		Reviews:     reviews.New(nil),
		Avatars:     users.New(nil, nil),
		Admin:       admin.NewHandler(nil, nil),
		Health:      func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
		RequireAuth: testAuth,
	})
}

func TestRouterAccess(t *testing.T) {
	h := testRouter()

	cases := []struct {
		name   string
		method string
		path   string
		user   string
		super  bool
		want   int
	}{
		{"root", http.MethodGet, "/", "", false, http.StatusOK},
		{"health", http.MethodGet, "/healthz", "", false, http.StatusOK},
		{"books need auth", http.MethodGet, "/api/books", "", false, http.StatusUnauthorized},
		{"create book needs superuser", http.MethodPost, "/api/books", "2", false, http.StatusForbidden},
		{"delete book needs superuser", http.MethodDelete, "/api/books/1", "2", false, http.StatusForbidden},
		{"title page needs superuser", http.MethodPut, "/api/books/1/title_page", "2", false, http.StatusForbidden},
		{"records need auth", http.MethodGet, "/api/books/1/book_records", "", false, http.StatusUnauthorized},
		{"avatar needs auth", http.MethodPut, "/api/users/me/avatar", "", false, http.StatusUnauthorized},
		{"admin for superusers only", http.MethodGet, "/api/admin/stats", "2", false, http.StatusForbidden},
		{"admin needs auth", http.MethodGet, "/api/admin/users", "", false, http.StatusUnauthorized},
		{"unknown path", http.MethodGet, "/nope", "", false, http.StatusNotFound},
		{"wrong method", http.MethodPost, "/api/book-reviews/1", "2", false, http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.user != "" {
				req.Header.Set("X-Test-User", tc.user)
			}
			if tc.super {
				req.Header.Set("X-Test-Super", "1")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
