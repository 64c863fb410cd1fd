package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/go-playground/validator/v10"
)

// ValidationError carries field errors raised outside the validator, such as
// malformed JSON or an invalid path id.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a single-field ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Code: "invalid", Message: message}}}
}

// FromError maps any handler error to a Problem: store sentinels, validation
// failures and PostgreSQL errors. Anything else becomes a generic 500.
func FromError(err error) Problem {
	var verr *ValidationError
	var ferrs validator.ValidationErrors
	switch {
	case errors.Is(err, dbx.ErrNotFound):
		return Problem{Status: http.StatusNotFound, Title: "Not Found", Detail: "No object matches the given query."}
	case errors.As(err, &verr):
		return Problem{Status: http.StatusBadRequest, Title: "Validation failed", FieldErrors: verr.Fields}
	case errors.As(err, &ferrs):
		return Problem{Status: http.StatusBadRequest, Title: "Validation failed", FieldErrors: fromValidator(ferrs)}
	}
	if p, ok := FromPG(err); ok {
		return p
	}
	return Problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"}
}

// WriteError writes FromError(err); server-side failures are logged with the
// request id, never echoed.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	p := FromError(err)
	if p.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"component", "api",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"err", err,
		)
	}
	Write(w, r, p)
}

func fromValidator(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, FieldError{Field: fe.Field(), Code: fe.Tag(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "pubyear":
		if y, ok := fe.Value().(int); ok && y < 300 {
			return "Ensure this value is greater than or equal to 300."
		}
		return "Ensure this value is less than or equal to the current year."
	case "reading_state":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	default:
		return "Invalid value."
	}
}
