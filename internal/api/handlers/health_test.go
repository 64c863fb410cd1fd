package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	cases := []struct {
		name  string
		db    Pinger
		redis RedisPinger
		want  int
		body  string
	}{
		{"db only", ok, nil, http.StatusOK, `{"status":"ok","checks":{"database":"ok"}}`},
		{"db and redis", ok, func(context.Context) error { return nil }, http.StatusOK, `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`},
		{"db down", down, nil, http.StatusServiceUnavailable, `{"status":"degraded","checks":{"database":"unavailable"}}`},
		{"redis down", ok, func(context.Context) error { return errors.New("x") }, http.StatusServiceUnavailable, `{"status":"degraded","checks":{"database":"ok","redis":"unavailable"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Healthz(tc.db, tc.redis)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tc.want, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestRootHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	RootHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RootHandler(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
