package shipping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/beehouse-checkout/internal/pricing"
)

// Mode is the delivery method chosen at checkout.
type Mode string

const (
	// ModeHome delivers to the customer's address.
	ModeHome Mode = "home"
	// ModeStopDesk delivers to a pickup point.
	ModeStopDesk Mode = "stop_desk"
)

var (
	// ErrSelectionIncomplete is returned when no region has been selected yet.
	ErrSelectionIncomplete = errors.New("shipping: region not selected")
	// ErrInvalidMode is returned for delivery modes other than home and stop_desk.
	ErrInvalidMode = errors.New("shipping: invalid delivery mode")
)

// ParseMode converts the form value into a Mode. An empty value selects ModeHome.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeHome:
		return ModeHome, nil
	case ModeStopDesk:
		return ModeStopDesk, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, value)
	}
}

// Quote is the resolved shipping price for a region and delivery mode.
type Quote struct {
	Region        string        `json:"region"`
	Mode          Mode          `json:"deliveryMode"`
	Cost          pricing.Money `json:"shippingCost"`
	HomePrice     pricing.Money `json:"homePrice"`
	StopDeskPrice pricing.Money `json:"stopDeskPrice"`
	// Savings is HomePrice - StopDeskPrice and may be zero or negative.
	Savings pricing.Money `json:"savings"`
	Known   bool          `json:"known"`
}

// SavingsHint renders the stop-desk label shown next to the pickup option.
func (q Quote) SavingsHint() string {
	return fmt.Sprintf("%d DZD (Save %d DZD!)", q.StopDeskPrice, q.Savings)
}

// Total adds the quoted cost to subtotal.
func (q Quote) Total(subtotal pricing.Money) pricing.Money {
	return pricing.GrandTotal(subtotal, q.Cost)
}

// Resolve prices region for mode. It is a pure function of its inputs.
func Resolve(table *RateTable, region string, mode Mode) (Quote, error) {
	if strings.TrimSpace(region) == "" {
		return Quote{}, ErrSelectionIncomplete
	}
	if mode != ModeHome && mode != ModeStopDesk {
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	entry, known := table.Entry(region)
	if !known {
		entry = DefaultEntry
	}
	cost := entry.HomePrice
	if mode == ModeStopDesk {
		cost = entry.StopDeskPrice
	}
	return Quote{
		Region:        region,
		Mode:          mode,
		Cost:          cost,
		HomePrice:     entry.HomePrice,
		StopDeskPrice: entry.StopDeskPrice,
		Savings:       entry.HomePrice - entry.StopDeskPrice,
		Known:         known,
	}, nil
}
