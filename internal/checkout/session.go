package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/geocode"
	"github.com/noah-isme/beehouse-checkout/internal/pricing"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
	"github.com/noah-isme/beehouse-checkout/internal/stopdesk"
)

var (
	// ErrNegativeSubtotal is returned when a session is opened with a negative subtotal.
	ErrNegativeSubtotal = errors.New("checkout: negative subtotal")
	// ErrSubtotalTooLarge is returned when the subtotal exceeds pricing.MaxAmount.
	ErrSubtotalTooLarge = errors.New("checkout: subtotal too large")
	// ErrPickupPointNotInRegion is returned when selecting a point outside the current region.
	ErrPickupPointNotInRegion = errors.New("checkout: pickup point not available in region")
	// ErrNotStopDesk is returned when selecting a pickup point in home mode.
	ErrNotStopDesk = errors.New("checkout: pickup point requires stop-desk delivery")
)

// Catalog bundles the read-only data a session resolves against.
type Catalog struct {
	Rates  *shipping.RateTable
	Desks  *stopdesk.Directory
	Policy Policy
}

// Contact is the customer-entered part of the form.
type Contact struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// Session is the checkout state of one page. Shipping cost and totals are never stored;
// they are recomputed from region and mode on every read.
type Session struct {
	mu       sync.Mutex
	catalog  Catalog
	region   string
	mode     shipping.Mode
	subtotal pricing.Money
	pickup   *int64
	contact  Contact
	mapView  MapViewState
	notice   string
	seq      geocode.Sequencer
}

// NewSession opens a session in mode (home when empty) with a fixed subtotal.
func NewSession(c Catalog, subtotal pricing.Money, mode shipping.Mode) (*Session, error) {
	if subtotal < 0 {
		return nil, ErrNegativeSubtotal
	}
	if subtotal > pricing.MaxAmount {
		return nil, ErrSubtotalTooLarge
	}
	if mode == "" {
		mode = shipping.ModeHome
	}
	if mode != shipping.ModeHome && mode != shipping.ModeStopDesk {
		return nil, fmt.Errorf("%w: %q", shipping.ErrInvalidMode, mode)
	}
	s := &Session{catalog: c, mode: mode, subtotal: subtotal}
	s.mapView.ClearPickupPoints()
	return s, nil
}

// Region returns the selected region, empty when none.
func (s *Session) Region() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region
}

// Mode returns the delivery mode.
func (s *Session) Mode() shipping.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetRegion changes the region, refreshes pickup markers in stop-desk mode and drops
// a pickup selection that does not belong to the new region.
func (s *Session) SetRegion(region string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = region
	if s.pickup != nil && !s.catalog.Desks.InRegion(*s.pickup, s.region) {
		s.pickup = nil
	}
	s.refreshPickupLocked()
}

// SetMode switches between home and stop-desk delivery. It can be called any number of times.
func (s *Session) SetMode(mode shipping.Mode) error {
	if mode != shipping.ModeHome && mode != shipping.ModeStopDesk {
		return fmt.Errorf("%w: %q", shipping.ErrInvalidMode, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.refreshPickupLocked()
	return nil
}

func (s *Session) refreshPickupLocked() {
	s.notice = ""
	if s.mode != shipping.ModeStopDesk || s.region == "" {
		s.mapView.ClearPickupPoints()
		return
	}
	s.mapView.Selected = s.pickup
	points := s.catalog.Desks.ByRegion(s.region)
	s.mapView.ShowPickupPoints(points)
	if len(points) == 0 {
		s.notice = fmt.Sprintf("No Stop Desks available in %s. Please choose Home Delivery or select another wilaya.", s.region)
	}
}

// SelectPickupPoint chooses a pickup point of the current region.
func (s *Session) SelectPickupPoint(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != shipping.ModeStopDesk {
		return ErrNotStopDesk
	}
	if !s.catalog.Desks.InRegion(id, s.region) {
		return fmt.Errorf("%w: %d in %q", ErrPickupPointNotInRegion, id, s.region)
	}
	s.pickup = &id
	s.mapView.Select(id)
	return nil
}

// UpdateContact replaces the customer-entered fields.
func (s *Session) UpdateContact(c Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = c
}

// Pin outcomes reported by PinLocation.
const (
	PinApplied     = "applied"
	PinStale       = "stale"
	PinUnavailable = "unavailable"
	PinManual      = "manual"
)

// PinResult tells the page what happened to a map click.
type PinResult struct {
	Token  uint64 `json:"token"`
	Status string `json:"status"`
}

// PinLocation drops the home marker at lat/lng and fills address and city from the
// reverse lookup. Only the newest pin may write the fields; lookup failures are logged
// and leave them unchanged.
func (s *Session) PinLocation(ctx context.Context, rev geocode.Reverser, lat, lng float64) (PinResult, error) {
	if err := geocode.CheckCoordinates(lat, lng); err != nil {
		return PinResult{}, err
	}
	s.mu.Lock()
	token := s.seq.Next()
	s.mapView.PinHome(LatLng{Lat: lat, Lng: lng})
	s.mu.Unlock()
	return s.applyLookup(ctx, rev, token, lat, lng)
}

// PinLocationAs is PinLocation for a click numbered by the page. Sessions rebuilt from
// the same state share a counter, so the page numbers each click and drops any answer
// whose token is not its latest click. A token at or below the session's current one
// is stale before the lookup and changes nothing.
func (s *Session) PinLocationAs(ctx context.Context, rev geocode.Reverser, token uint64, lat, lng float64) (PinResult, error) {
	if err := geocode.CheckCoordinates(lat, lng); err != nil {
		return PinResult{}, err
	}
	s.mu.Lock()
	if !s.seq.Claim(token) {
		latest := s.seq.Current()
		s.mu.Unlock()
		zerolog.Ctx(ctx).Debug().Uint64("token", token).Uint64("latest", latest).Msg("geocode_click_superseded")
		return PinResult{Token: token, Status: PinStale}, nil
	}
	s.mapView.PinHome(LatLng{Lat: lat, Lng: lng})
	s.mu.Unlock()
	return s.applyLookup(ctx, rev, token, lat, lng)
}

func (s *Session) applyLookup(ctx context.Context, rev geocode.Reverser, token uint64, lat, lng float64) (PinResult, error) {
	if rev == nil {
		return PinResult{Token: token, Status: PinManual}, nil
	}
	addr, err := rev.Reverse(ctx, lat, lng)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint64("token", token).Msg("geocode_lookup_failed")
		return PinResult{Token: token, Status: PinUnavailable}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.Latest(token) {
		zerolog.Ctx(ctx).Debug().Uint64("token", token).Uint64("latest", s.seq.Current()).Msg("geocode_result_stale")
		return PinResult{Token: token, Status: PinStale}, nil
	}
	if addr.Text != "" {
		s.contact.Address = addr.Text
	}
	if addr.City != "" {
		s.contact.City = addr.City
	}
	return PinResult{Token: token, Status: PinApplied}, nil
}

// Quote resolves the current shipping cost.
func (s *Session) Quote() (shipping.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return shipping.Resolve(s.catalog.Rates, s.region, s.mode)
}

// Validate runs the form gate on the current state.
func (s *Session) Validate() GateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Session) validateLocked() GateResult {
	valid := s.pickup != nil && s.catalog.Desks.InRegion(*s.pickup, s.region)
	return Validate(s.catalog.Policy, GateInput{
		Region:           s.region,
		Mode:             s.mode,
		PickupPointValid: valid,
		Address:          s.contact.Address,
		City:             s.contact.City,
		Phone:            s.contact.Phone,
	})
}
