package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/validate"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": data})
}

// Page writes a paged list with its total and the window that was applied.
func Page(w http.ResponseWriter, data any, total, limit, offset int) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   data,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode reads a single JSON object into dst, rejecting unknown fields and
// trailing data. Failures are returned as *apperr.ValidationError.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Invalid(apperr.NonFieldErrors, "Request body must contain a single JSON object.")
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Invalid(apperr.NonFieldErrors, "Request body is empty.")
	case errors.As(err, &typeErr):
		return apperr.Invalid(typeErr.Field, fmt.Sprintf("Expected %s.", typeErr.Type))
	case errors.As(err, &maxErr):
		return apperr.Invalid(apperr.NonFieldErrors, "Request body too large.")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return apperr.Invalid(field, "Unknown field.")
	default:
		return apperr.Invalid(apperr.NonFieldErrors, "Malformed JSON.")
	}
}

// PathID parses the named path value as a positive id.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := validate.ParseID(r.PathValue(name))
	if err != nil {
		return 0, apperr.Invalid(name, "A valid integer is required.")
	}
	return id, nil
}

// AbsoluteURL builds an absolute URL for path on the host the request came in on.
func AbsoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host + path
}
