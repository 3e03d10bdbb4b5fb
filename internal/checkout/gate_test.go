package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/checkout"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

func TestValidateOrder(t *testing.T) {
	strict := checkout.Policy{AddressRequiredForStopDesk: false}
	unified := checkout.DefaultPolicy()

	complete := checkout.GateInput{
		Region:  "Oran",
		Mode:    shipping.ModeHome,
		Address: "Rue A",
		City:    "Oran",
		Phone:   "0555 12-34-56",
	}

	cases := []struct {
		name   string
		policy checkout.Policy
		mutate func(*checkout.GateInput)
		want   checkout.Reason
	}{
		{"ok home", unified, func(*checkout.GateInput) {}, ""},
		{"missing region wins over everything", unified, func(in *checkout.GateInput) {
			in.Region, in.Mode, in.Address, in.Phone = "", shipping.ModeStopDesk, "", ""
		}, checkout.MissingRegion},
		{"blank region", unified, func(in *checkout.GateInput) { in.Region = "   " }, checkout.MissingRegion},
		{"stop desk without pickup", unified, func(in *checkout.GateInput) {
			in.Mode = shipping.ModeStopDesk
		}, checkout.MissingPickupPoint},
		{"pickup checked before address", strict, func(in *checkout.GateInput) {
			in.Mode, in.Address = shipping.ModeStopDesk, ""
		}, checkout.MissingPickupPoint},
		{"home without address", unified, func(in *checkout.GateInput) { in.Address = "" }, checkout.MissingAddress},
		{"home without city", unified, func(in *checkout.GateInput) { in.City = " " }, checkout.MissingAddress},
		{"unified stop desk still needs address", unified, func(in *checkout.GateInput) {
			in.Mode, in.PickupPointValid, in.Address = shipping.ModeStopDesk, true, ""
		}, checkout.MissingAddress},
		{"strict stop desk ignores address", strict, func(in *checkout.GateInput) {
			in.Mode, in.PickupPointValid, in.Address, in.City = shipping.ModeStopDesk, true, "", ""
		}, ""},
		{"missing phone", unified, func(in *checkout.GateInput) { in.Phone = "" }, checkout.MissingPhone},
		{"bad phone", unified, func(in *checkout.GateInput) { in.Phone = "123456" }, checkout.InvalidPhoneFormat},
		{"international phone", unified, func(in *checkout.GateInput) { in.Phone = "+213555123456" }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := complete
			tc.mutate(&in)
			res := checkout.Validate(tc.policy, in)
			if tc.want == "" {
				require.True(t, res.OK, res.Reason)
				return
			}
			require.False(t, res.OK)
			require.Equal(t, tc.want, res.Reason)
			require.NotEmpty(t, res.Message)
		})
	}
}

func TestRequiredFields(t *testing.T) {
	strict := checkout.Policy{}
	require.Equal(t, checkout.RequiredFields{Address: true, City: true, ShowAddress: true}, strict.Required(shipping.ModeHome))
	require.Equal(t, checkout.RequiredFields{PickupPoint: true, ShowPickup: true}, strict.Required(shipping.ModeStopDesk))

	unified := checkout.DefaultPolicy()
	got := unified.Required(shipping.ModeStopDesk)
	require.True(t, got.Address)
	require.True(t, got.City)
	require.True(t, got.PickupPoint)
}
