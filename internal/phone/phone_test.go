package phone_test

import (
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/phone"
)

func TestValid(t *testing.T) {
	valid := []string{
		"0555123456",
		"+213555123456",
		"0655 12 34 56",
		"07-70-12-34-56",
		"+213 7 70 12 34 56",
	}
	for _, number := range valid {
		require.Truef(t, phone.Valid(number), "expected %q to be valid", number)
	}

	invalid := []string{
		"",
		"123456",
		"0455123456",
		"055512345",
		"05551234567",
		"+21355512345",
		"00213555123456",
		"+213 455 123 456",
	}
	for _, number := range invalid {
		require.Falsef(t, phone.Valid(number), "expected %q to be invalid", number)
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "05 55 12 34 56", phone.Format("0555123456"))
	require.Equal(t, "+213 5 55 12 34 56", phone.Format("+213555123456"))
	require.Equal(t, "05 55", phone.Format("0555"))
	require.Equal(t, "+213 5", phone.Format("2135"))
	require.Equal(t, "12345", phone.Format("12-345"))
	require.Equal(t, "0", phone.Format("0"))
}

func TestRegisterValidation(t *testing.T) {
	v := validator.New()
	require.NoError(t, phone.RegisterValidation(v))

	type form struct {
		Phone string `validate:"omitempty,dzphone"`
	}
	require.NoError(t, v.Struct(form{Phone: "0555123456"}))
	require.NoError(t, v.Struct(form{}))
	require.Error(t, v.Struct(form{Phone: "123456"}))
}
