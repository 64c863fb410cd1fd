package validate

import (
	"reflect"
	"strings"
	"time"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// MinPublicationYear is the earliest accepted publication year.
const MinPublicationYear = 300

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = val.RegisterValidation("pubyear", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= MinPublicationYear && y <= int64(CurrentYear())
	})
	_ = val.RegisterValidation("reading_state", func(fl validator.FieldLevel) bool {
		return models.ReadingState(fl.Field().String()).Valid()
	})
	return val
}

// CurrentYear is the upper bound for publication years.
func CurrentYear() int { return time.Now().Year() }

// Struct validates a request DTO; failures are validator.ValidationErrors
// keyed by json field name.
func Struct(s any) error { return v.Struct(s) }
