// Package order hands a validated checkout to the order-creation endpoint.
package order

import (
	"net/url"
	"strconv"

	"github.com/noah-isme/beehouse-checkout/internal/pricing"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

// Payload is what the order endpoint receives for one checkout.
type Payload struct {
	SubmissionID  string        `json:"submissionId"`
	Region        string        `json:"wilaya"`
	DeliveryMode  shipping.Mode `json:"deliveryType"`
	ShippingCost  pricing.Money `json:"shippingCost"`
	Subtotal      pricing.Money `json:"subtotal"`
	Total         pricing.Money `json:"total"`
	FullName      string        `json:"fullName,omitempty"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address,omitempty"`
	City          string        `json:"city,omitempty"`
	PickupPointID *int64        `json:"stopDeskId,omitempty"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
}

// Form encodes the payload with the field names of the storefront order form.
func (p Payload) Form() url.Values {
	v := url.Values{}
	v.Set("wilaya", p.Region)
	v.Set("delivery_type", string(p.DeliveryMode))
	v.Set("shipping_cost", strconv.FormatInt(p.ShippingCost, 10))
	v.Set("address", p.Address)
	v.Set("city", p.City)
	v.Set("phone", p.Phone)
	v.Set("full_name", p.FullName)
	if p.PickupPointID != nil {
		v.Set("stop_desk_id", strconv.FormatInt(*p.PickupPointID, 10))
	}
	if p.Latitude != nil && p.Longitude != nil {
		v.Set("latitude", strconv.FormatFloat(*p.Latitude, 'f', -1, 64))
		v.Set("longitude", strconv.FormatFloat(*p.Longitude, 'f', -1, 64))
	}
	return v
}
