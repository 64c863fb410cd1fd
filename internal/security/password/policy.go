package password

import (
	"errors"
	"strings"
	"unicode"
)

const MinLen = 8

var ErrTooShort = errors.New("weak_password.length")

// Warning is advisory feedback returned alongside an accepted password.
type Warning struct {
	Score       int      `json:"score"` // 0..4
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Validate trims the password and blocks only on MinLen. The strength score is
// advisory; userInputs (username, email) lower it when contained in pwd.
func Validate(pwd string, userInputs ...string) (trimmed string, warn *Warning, err error) {
	trimmed = strings.TrimSpace(pwd)
	if len([]rune(trimmed)) < MinLen {
		return trimmed, nil, ErrTooShort
	}
	if w := assess(trimmed, userInputs); w.Score < 3 {
		warn = &w
	}
	return trimmed, warn, nil
}

func assess(pwd string, hints []string) Warning {
	n := len([]rune(pwd))
	classes := charClasses(pwd)

	lower := strings.ToLower(pwd)
	if n < 16 && containsHint(lower, hints) && classes > 1 {
		classes--
	}

	switch {
	case allDigits(pwd):
		return Warning{Score: 0, Message: "This password is entirely numeric.", Suggestions: []string{"Mix in letters and symbols."}}
	case n >= 14 && classes >= 3:
		return Warning{Score: 4}
	case n >= 12 && classes >= 3:
		return Warning{Score: 3, Suggestions: []string{"A few unrelated words make a stronger passphrase."}}
	case n >= 10 && classes >= 2:
		return Warning{Score: 2, Message: "Short or low variety.", Suggestions: []string{"Add length and mix letters, digits and symbols."}}
	default:
		return Warning{Score: 1, Message: "Too short or predictable.", Suggestions: []string{"Use 12 or more characters of mixed types."}}
	}
}

func charClasses(pwd string) int {
	var lower, upper, digit, other bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	c := 0
	for _, ok := range [...]bool{lower, upper, digit, other} {
		if ok {
			c++
		}
	}
	return c
}

func containsHint(lowerPwd string, hints []string) bool {
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		// the local part of an email is the guessable bit
		if at := strings.IndexByte(h, '@'); at > 0 {
			h = h[:at]
		}
		if len(h) >= 3 && strings.Contains(lowerPwd, h) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
