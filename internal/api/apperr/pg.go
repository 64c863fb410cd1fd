package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// NonFieldErrors is the field name used for errors that span several fields.
const NonFieldErrors = "non_field_errors"

type constraintInfo struct {
	field   string
	message string
}

// Known constraints and the client-facing message for their violation.
var constraints = map[string]constraintInfo{
	"unique_by_author":                 {NonFieldErrors, "The fields title, author must make a unique set."},
	"unique_book_record_for_user":      {NonFieldErrors, "Unique constraint violation: this user has already created a book record for this book."},
	"unique_user_review":               {NonFieldErrors, "Unique constraint violation: this user has already reviewed this book."},
	"users_username_key":               {"username", "A user with that username already exists."},
	"books_publication_year_check":     {"publication_year", "Ensure this value is greater than or equal to 300."},
	"book_records_reading_state_check": {"reading_state", "Not a valid reading state."},
	"book_records_book_id_fkey":        {"book", "Book does not exist."},
	"book_reviews_book_id_fkey":        {"book", "Book does not exist."},
	"book_favorites_book_id_fkey":      {"book", "Book does not exist."},
}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	for _, k := range []string{"title", "author", "publication_year", "username", "reading_state", "body", "book_id"} {
		if strings.Contains(detail, k) {
			return k
		}
	}
	return ""
}

// FromPG maps a pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	p := Problem{Title: "Database error", Status: http.StatusInternalServerError}

	info, known := constraints[pg.ConstraintName]
	field := info.field
	if field == "" && pg.ColumnName != "" {
		field = pg.ColumnName
	}
	if field == "" && pg.Detail != "" {
		field = fieldFromDetail(pg.Detail)
	}
	if field == "" {
		field = NonFieldErrors
	}
	badRequest := func(code, fallback string) {
		msg := fallback
		if known {
			msg = info.message
		}
		p.Status = http.StatusBadRequest
		p.Title = "Bad Request"
		p.Detail = msg
		p.FieldErrors = []FieldError{{Field: field, Code: code, Message: msg}}
	}

	switch pg.Code {
	case "23505": // unique_violation
		badRequest("unique", "value already exists")
	case "23503": // foreign_key_violation
		badRequest("fk", "referenced object does not exist")
	case "23502": // not_null_violation
		badRequest("not_null", "This field is required.")
	case "23514": // check_violation
		badRequest("check", "constraint failed")
	case "22P02": // invalid_text_representation
		badRequest("invalid", "invalid format")
	case "22001": // string_data_right_truncation
		badRequest("too_long", "value is too long")
	case "22003": // numeric_value_out_of_range
		badRequest("out_of_range", "value is out of range")
	case "40001": // serialization_failure
		p.Status = http.StatusConflict
		p.Title = "Conflict"
		p.Detail = "transaction conflict, please retry"
		p.Retryable = true
	case "40P01": // deadlock_detected
		p.Status = http.StatusConflict
		p.Title = "Conflict"
		p.Detail = "deadlock detected, please retry"
		p.Retryable = true
	}
	return p, true
}
