package validate

import (
	"errors"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Dune", Normalize("  Dune\x00 "))
	// combining acute accent vs precomposed
	assert.Equal(t, "Caf\u00e9", Normalize("Cafe\u0301"))
}

func TestRequireBounded(t *testing.T) {
	s, err := RequireBounded("title", "  Dune ", 1, 255)
	require.NoError(t, err)
	assert.Equal(t, "Dune", s)

	_, err = RequireBounded("title", "   ", 1, 255)
	assert.EqualError(t, err, "title must be between 1 and 255 characters")
}

func TestClampLimitOffset(t *testing.T) {
	cases := []struct {
		limit, offset string
		wantL, wantO  int
	}{
		{"", "", 20, 0},
		{"5", "10", 5, 10},
		{"500", "0", 100, 0},
		{"0", "-3", 20, 0},
		{"abc", "x", 20, 0},
	}
	for _, c := range cases {
		l, o := ClampLimitOffset(c.limit, c.offset, 20, 100)
		assert.Equal(t, c.wantL, l, "limit %q", c.limit)
		assert.Equal(t, c.wantO, o, "offset %q", c.offset)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "x1", "1.5"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalid, bad)
	}
}

type bookDTO struct {
	Title string `json:"title" validate:"required,max=255"`
	Year  *int   `json:"publication_year" validate:"omitempty,pubyear"`
	State string `json:"reading_state" validate:"omitempty,reading_state"`
}

func intp(i int) *int { return &i }

func TestStruct_PublicationYearBounds(t *testing.T) {
	ok := []*int{nil, intp(300), intp(1965), intp(CurrentYear())}
	for _, y := range ok {
		assert.NoError(t, Struct(bookDTO{Title: "Dune", Year: y}))
	}

	for _, y := range []int{299, CurrentYear() + 1} {
		err := Struct(bookDTO{Title: "Dune", Year: intp(y)})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs), strconv.Itoa(y))
		assert.Equal(t, "publication_year", verrs[0].Field())
		assert.Equal(t, "pubyear", verrs[0].Tag())
	}
}

func TestStruct_ReadingStateAndJSONNames(t *testing.T) {
	assert.NoError(t, Struct(bookDTO{Title: "x", State: "rg"}))

	err := Struct(bookDTO{State: "zz"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := []string{}
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"title", "reading_state"}, fields)
}
