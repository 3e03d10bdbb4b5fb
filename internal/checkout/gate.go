package checkout

import (
	"strings"

	"github.com/noah-isme/beehouse-checkout/internal/phone"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

// Reason is a gate failure code.
type Reason string

const (
	MissingRegion      Reason = "MISSING_REGION"
	MissingPickupPoint Reason = "MISSING_PICKUP_POINT"
	MissingAddress     Reason = "MISSING_ADDRESS"
	MissingPhone       Reason = "MISSING_PHONE"
	InvalidPhoneFormat Reason = "INVALID_PHONE_FORMAT"
)

var reasonMessages = map[Reason]string{
	MissingRegion:      "Please select your wilaya",
	MissingPickupPoint: "Please select a Stop Desk location on the map",
	MissingAddress:     "Please enter your address and city",
	MissingPhone:       "Please enter your phone number",
	InvalidPhoneFormat: "Please enter a valid Algerian mobile number (05, 06 or 07)",
}

// Message returns the prompt shown to the customer for r.
func (r Reason) Message() string {
	return reasonMessages[r]
}

// GateResult is the outcome of Validate.
type GateResult struct {
	OK      bool   `json:"ok"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// GateInput is the form state the gate inspects.
type GateInput struct {
	Region string
	Mode   shipping.Mode
	// PickupPointValid is true when a pickup point is chosen and belongs to Region.
	PickupPointValid bool
	Address          string
	City             string
	Phone            string
}

func fail(r Reason) GateResult {
	return GateResult{Reason: r, Message: r.Message()}
}

// Validate checks in by the rules of p and stops at the first failure.
func Validate(p Policy, in GateInput) GateResult {
	if strings.TrimSpace(in.Region) == "" {
		return fail(MissingRegion)
	}
	req := p.Required(in.Mode)
	if req.PickupPoint && !in.PickupPointValid {
		return fail(MissingPickupPoint)
	}
	if (req.Address && strings.TrimSpace(in.Address) == "") || (req.City && strings.TrimSpace(in.City) == "") {
		return fail(MissingAddress)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fail(MissingPhone)
	}
	if !phone.Valid(in.Phone) {
		return fail(InvalidPhoneFormat)
	}
	return GateResult{OK: true}
}
