package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/validate"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPG_UniqueViolationsAreBadRequests(t *testing.T) {
	cases := map[string]string{
		"unique_by_author":            "The fields title, author must make a unique set.",
		"unique_book_record_for_user": "Unique constraint violation: this user has already created a book record for this book.",
		"unique_user_review":          "Unique constraint violation: this user has already reviewed this book.",
	}
	for constraint, want := range cases {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraint})
		p, ok := FromPG(err)
		require.True(t, ok, constraint)
		assert.Equal(t, http.StatusBadRequest, p.Status, constraint)
		assert.Equal(t, want, p.Detail)
		require.Len(t, p.FieldErrors, 1)
		assert.Equal(t, NonFieldErrors, p.FieldErrors[0].Field)
		assert.Equal(t, "unique", p.FieldErrors[0].Code)
	}
}

func TestFromPG_UsernameTaken(t *testing.T) {
	p, ok := FromPG(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "username", p.FieldErrors[0].Field)
}

func TestFromPG_RetryableAndUnknown(t *testing.T) {
	p, _ := FromPG(&pgconn.PgError{Code: "40P01"})
	assert.Equal(t, http.StatusConflict, p.Status)
	assert.True(t, p.Retryable)

	p, _ = FromPG(&pgconn.PgError{Code: "XX000", Message: "internal detail"})
	assert.Equal(t, http.StatusInternalServerError, p.Status)
	assert.Empty(t, p.Detail)

	_, ok := FromPG(errors.New("plain"))
	assert.False(t, ok)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, FromError(fmt.Errorf("get: %w", dbx.ErrNotFound)).Status)
	assert.Equal(t, http.StatusBadRequest, FromError(Invalid("id", "bad id")).Status)
	assert.Equal(t, http.StatusInternalServerError, FromError(errors.New("boom")).Status)

	type dto struct {
		Year *int `json:"publication_year" validate:"omitempty,pubyear"`
	}
	y := 250
	p := FromError(validate.Struct(dto{Year: &y}))
	assert.Equal(t, http.StatusBadRequest, p.Status)
	require.Len(t, p.FieldErrors, 1)
	assert.Equal(t, "publication_year", p.FieldErrors[0].Field)
	assert.Equal(t, "Ensure this value is greater than or equal to 300.", p.FieldErrors[0].Message)
}

func TestWrite_ProblemJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/books/9", nil)
	r.Header.Set("X-Request-ID", "rid-1")
	w := httptest.NewRecorder()

	WriteError(w, r, dbx.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, "/api/books/9", p.Instance)
	assert.Equal(t, "rid-1", p.RequestID)
}
