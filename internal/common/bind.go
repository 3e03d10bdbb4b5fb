package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/beehouse-checkout/internal/phone"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the project's custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := phone.RegisterValidation(v); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// FieldError is a single validation failure reported to clients.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Bind decodes a JSON request body into dst and validates it.
func Bind(r *http.Request, dst any) error {
	if err := Decode(r, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// Decode reads a JSON request body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return NewAppError("BAD_REQUEST", "request body required", http.StatusBadRequest, nil)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
	}
	return nil
}

// Validate checks the struct tags of dst. Fields named in except are skipped so the
// caller can report them in its own format.
func Validate(dst any, except ...string) error {
	var err error
	if len(except) > 0 {
		err = Validator().StructExcept(dst, except...)
	} else {
		err = Validator().Struct(dst)
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Namespace(), Rule: fe.Tag()})
		}
		return NewAppError("VALIDATION_FAILED", "invalid payload", http.StatusBadRequest, err).WithDetails(fields)
	}
	return NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
}
