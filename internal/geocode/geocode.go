// Package geocode turns map coordinates into street addresses.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnavailable is returned for any upstream, throttling or decoding failure.
	// Callers treat it as non-fatal and leave address fields untouched.
	ErrUnavailable = errors.New("geocode: reverse geocoding unavailable")
	// ErrInvalidCoordinates is returned for latitudes or longitudes outside their range.
	ErrInvalidCoordinates = errors.New("geocode: invalid coordinates")
)

// Address is the human-readable result of a reverse lookup.
type Address struct {
	Text        string `json:"address"`
	City        string `json:"city,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Reverser resolves coordinates to an address.
type Reverser interface {
	Reverse(ctx context.Context, lat, lng float64) (Address, error)
}

// ReverserFunc adapts a function to Reverser.
type ReverserFunc func(ctx context.Context, lat, lng float64) (Address, error)

// Reverse calls f.
func (f ReverserFunc) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	return f(ctx, lat, lng)
}

// CheckCoordinates rejects NaN and out-of-range values.
func CheckCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: %v,%v", ErrInvalidCoordinates, lat, lng)
	}
	return nil
}
