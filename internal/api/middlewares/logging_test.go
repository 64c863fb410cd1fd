package middlewares_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := mw.RequestID(mw.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/books/999", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "http", line["component"])
	assert.Equal(t, "/api/books/999", line["path"])
	assert.EqualValues(t, 404, line["status"])
	assert.EqualValues(t, 4, line["bytes"])
	assert.Equal(t, "rid-42", line["request_id"])
}
