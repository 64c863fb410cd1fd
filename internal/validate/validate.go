package validate

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var ErrInvalid = errors.New("invalid")

// Normalize trims, drops NUL bytes and converts to NFC so that visually equal
// titles, authors and usernames compare equal in unique constraints.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return norm.NFC.String(strings.TrimSpace(s))
}

// RequireBounded normalizes and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = Normalize(s)
	if n := utf8.RuneCountInString(s); n < min || n > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// ClampLimitOffset parses and clamps paging.
func ClampLimitOffset(limitRaw, offsetRaw string, def, max int) (int, int) {
	limit := def
	if v, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil && v >= 1 {
		limit = min(v, max)
	}
	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// ParseID parses a positive integer path id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalid
	}
	return id, nil
}
