package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users  map[int64]*UserRow
	bumped []int64
	stats  StatsResponse
	calls  int
}

func (f *fakeStore) ListUsers(_ context.Context, lf ListFilter) ([]UserRow, int, error) {
	var out []UserRow
	for id := int64(1); id <= int64(len(f.users)); id++ {
		if u, ok := f.users[id]; ok && (lf.Superuser == nil || u.IsSuperuser == *lf.Superuser) {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (UserRow, error) {
	u, ok := f.users[id]
	if !ok {
		return UserRow{}, dbx.ErrNotFound
	}
	return *u, nil
}

func (f *fakeStore) SetSuperuser(_ context.Context, id int64, su bool) error {
	u, ok := f.users[id]
	if !ok {
		return dbx.ErrNotFound
	}
	u.IsSuperuser = su
	f.bumped = append(f.bumped, id)
	return nil
}

func (f *fakeStore) BumpTokenVersion(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return dbx.ErrNotFound
	}
	f.bumped = append(f.bumped, id)
	return nil
}

func (f *fakeStore) Stats(context.Context) (StatsResponse, error) {
	f.calls++
	return f.stats, nil
}

func newFake() *fakeStore {
	return &fakeStore{users: map[int64]*UserRow{
		1: {ID: 1, Username: "admin", IsSuperuser: true},
		2: {ID: 2, Username: "Belletrix"},
	}}
}

func serve(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/stats", h.Stats)
	mux.HandleFunc("GET /api/admin/users", h.ListUsers)
	mux.HandleFunc("GET /api/admin/users/{id}", h.GetUser)
	mux.HandleFunc("POST /api/admin/users/{id}/superuser", h.SetSuperuser)
	mux.HandleFunc("POST /api/admin/users/{id}/logout", h.LogoutUser)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(middlewares.WithActor(req.Context(), middlewares.Actor{ID: 1, Username: "admin", IsSuperuser: true}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestStatsWithoutRedis(t *testing.T) {
	sto := newFake()
	sto.stats = StatsResponse{UsersTotal: 2, BooksTotal: 4}
	h := NewHandler(sto, nil)

	rec := serve(h, http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"books_total":4`)

	serve(h, http.MethodGet, "/api/admin/stats", "")
	assert.Equal(t, 2, sto.calls)
}

func TestListAndGetUsers(t *testing.T) {
	h := NewHandler(newFake(), nil)

	rec := serve(h, http.MethodGet, "/api/admin/users?is_superuser=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Belletrix")
	assert.NotContains(t, rec.Body.String(), `"username":"admin"`)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/admin/users/2", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/admin/users/9", "").Code)
}

func TestSetSuperuser(t *testing.T) {
	sto := newFake()
	h := NewHandler(sto, nil)

	rec := serve(h, http.MethodPost, "/api/admin/users/2/superuser", `{"is_superuser":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, sto.users[2].IsSuperuser)
	assert.Equal(t, []int64{2}, sto.bumped)

	rec = serve(h, http.MethodPost, "/api/admin/users/1/superuser", `{"is_superuser":false}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, sto.users[1].IsSuperuser)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/api/admin/users/2/superuser", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPost, "/api/admin/users/9/superuser", `{"is_superuser":true}`).Code)
}

func TestLogoutUser(t *testing.T) {
	sto := newFake()
	h := NewHandler(sto, nil)

	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodPost, "/api/admin/users/2/logout", "").Code)
	assert.Equal(t, []int64{2}, sto.bumped)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPost, "/api/admin/users/9/logout", "").Code)
}

func TestParseBool(t *testing.T) {
	assert.Nil(t, parseBool(""))
	assert.True(t, *parseBool("TRUE"))
	assert.True(t, *parseBool("1"))
	assert.False(t, *parseBool("no"))
}
