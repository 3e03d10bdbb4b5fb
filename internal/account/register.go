// Package account checks registration forms before they reach the account backend.
package account

import (
	"unicode/utf8"

	"github.com/noah-isme/beehouse-checkout/internal/common"
	"github.com/noah-isme/beehouse-checkout/internal/phone"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// Failure codes reported by ValidateRegistration.
const (
	PasswordMismatch   = "PASSWORD_MISMATCH"
	InvalidPhoneFormat = "INVALID_PHONE_FORMAT"
	PasswordTooShort   = "PASSWORD_TOO_SHORT"
)

// Registration is the subset of the sign-up form checked here.
type Registration struct {
	Username  string `json:"username" validate:"max=150"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
	Phone     string `json:"phone" validate:"required,max=32,dzphone"`
}

// phoneField is checked by ValidateRegistration rather than at bind time, so a bad
// number is listed alongside the password failures.
const phoneField = "Phone"

// Failure is one problem with a registration form.
type Failure struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result lists every failure found; OK is true when there are none.
type Result struct {
	OK             bool      `json:"ok"`
	Failures       []Failure `json:"failures"`
	Strength       Strength  `json:"strength"`
	PhoneFormatted string    `json:"phoneFormatted,omitempty"`
}

// ValidateRegistration runs all checks and collects every failure.
func ValidateRegistration(r Registration) Result {
	failures := make([]Failure, 0, 3)
	if r.Password1 != r.Password2 {
		failures = append(failures, Failure{Code: PasswordMismatch, Field: "password2", Message: "Passwords do not match"})
	}
	if common.Validator().StructPartial(r, phoneField) != nil {
		failures = append(failures, Failure{Code: InvalidPhoneFormat, Field: "phone", Message: "Invalid phone number format"})
	}
	if utf8.RuneCountInString(r.Password1) < MinPasswordLength {
		failures = append(failures, Failure{Code: PasswordTooShort, Field: "password1", Message: "Password must be at least 8 characters long"})
	}
	return Result{
		OK:             len(failures) == 0,
		Failures:       failures,
		Strength:       PasswordStrength(r.Password1),
		PhoneFormatted: phone.Format(r.Phone),
	}
}

// Strength is the coarse password meter shown while typing.
type Strength string

const (
	StrengthNone   Strength = "none"
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// PasswordStrength rates a password by length alone.
func PasswordStrength(password string) Strength {
	switch n := utf8.RuneCountInString(password); {
	case n == 0:
		return StrengthNone
	case n < 5:
		return StrengthWeak
	case n > 8:
		return StrengthStrong
	default:
		return StrengthMedium
	}
}
