package middlewares_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
)

func readAllHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBodySizeLimit(t *testing.T) {
	wrapped := mw.BodySizeLimit(1024)(readAllHandler())

	cases := []struct {
		method string
		size   int
		want   int
	}{
		{"POST", 10, http.StatusOK},
		{"POST", 2048, http.StatusRequestEntityTooLarge},
		{"PUT", 2048, http.StatusRequestEntityTooLarge},
		{"PATCH", 2048, http.StatusRequestEntityTooLarge},
		{"GET", 2048, http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, "/test", bytes.NewReader(bytes.Repeat([]byte("a"), c.size)))
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Errorf("%s %d bytes: expected %d, got %d", c.method, c.size, c.want, rec.Code)
		}
	}
}

func TestBodySizeLimit_DefaultsWhenUnset(t *testing.T) {
	wrapped := mw.BodySizeLimit(0)(readAllHandler())

	req := httptest.NewRequest("POST", "/test", strings.NewReader(strings.Repeat("x", 1<<20)))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("1 MiB should pass the 10 MiB default, got %d", rec.Code)
	}
}
