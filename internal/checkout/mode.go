// Package checkout holds the delivery-method state of one checkout page and the
// gate that decides whether it may be submitted.
package checkout

import "github.com/noah-isme/beehouse-checkout/internal/shipping"

// Policy selects between the two storefront page variants.
type Policy struct {
	// AddressRequiredForStopDesk keeps address and city mandatory in stop-desk mode
	// (unified map page). When false they are hidden in stop-desk mode.
	AddressRequiredForStopDesk bool `json:"addressRequiredForStopDesk"`
}

// DefaultPolicy is the unified-map variant.
func DefaultPolicy() Policy {
	return Policy{AddressRequiredForStopDesk: true}
}

// RequiredFields lists the form fields that must be filled for a delivery mode.
type RequiredFields struct {
	Address     bool `json:"address"`
	City        bool `json:"city"`
	PickupPoint bool `json:"pickupPoint"`
	ShowAddress bool `json:"showAddress"`
	ShowPickup  bool `json:"showPickup"`
}

// Required returns the field flags for mode under p.
func (p Policy) Required(mode shipping.Mode) RequiredFields {
	if mode == shipping.ModeStopDesk {
		return RequiredFields{
			Address:     p.AddressRequiredForStopDesk,
			City:        p.AddressRequiredForStopDesk,
			PickupPoint: true,
			ShowAddress: p.AddressRequiredForStopDesk,
			ShowPickup:  true,
		}
	}
	return RequiredFields{Address: true, City: true, ShowAddress: true}
}
