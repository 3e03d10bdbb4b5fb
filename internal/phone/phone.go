// Package phone validates and formats Algerian mobile numbers.
package phone

import (
	"regexp"
	"strings"
	"unicode"

	validator "github.com/go-playground/validator/v10"
)

// Tag is the validator tag registered by RegisterValidation.
const Tag = "dzphone"

var (
	internationalPattern = regexp.MustCompile(`^\+213[567]\d{8}$`)
	localPattern         = regexp.MustCompile(`^0[567]\d{8}$`)
)

// Normalize strips whitespace and dashes from the raw input.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, raw)
}

// Valid reports whether raw is a mobile number in +213[5-7]XXXXXXXX or 0[5-7]XXXXXXXX form.
func Valid(raw string) bool {
	clean := Normalize(raw)
	return internationalPattern.MatchString(clean) || localPattern.MatchString(clean)
}

// Format groups the digits for display, e.g. "05 55 12 34 56" or "+213 5 55 12 34 56".
// Inputs that are neither local nor international are returned as bare digits.
func Format(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch {
	case strings.HasPrefix(digits, "213") && len(digits) > 3:
		return strings.TrimSpace("+213 " + join(digits, 3, 4, 6, 8, 10, 12))
	case strings.HasPrefix(digits, "0") && len(digits) > 2:
		return strings.TrimSpace(join(digits, 0, 2, 4, 6, 8, 10))
	default:
		return digits
	}
}

func join(digits string, bounds ...int) string {
	parts := make([]string, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		parts = append(parts, slice(digits, bounds[i], bounds[i+1]))
	}
	return strings.Join(parts, " ")
}

func slice(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// RegisterValidation installs the dzphone tag on v. Empty values are left to `required`.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if strings.TrimSpace(value) == "" {
			return true
		}
		return Valid(value)
	})
}
