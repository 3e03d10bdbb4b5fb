package checkout

import (
	"errors"

	"github.com/noah-isme/beehouse-checkout/internal/pricing"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
	"github.com/noah-isme/beehouse-checkout/internal/stopdesk"
)

// State is the form state the page holds and posts back with every call.
type State struct {
	Region        string        `json:"region"`
	DeliveryMode  string        `json:"deliveryMode"`
	Subtotal      pricing.Money `json:"subtotal" validate:"gte=0,lte=1000000000000"`
	PickupPointID *int64        `json:"pickupPointId,omitempty"`
	FullName      string        `json:"fullName" validate:"max=200"`
	Phone         string        `json:"phone" validate:"max=32"`
	Address       string        `json:"address" validate:"max=500"`
	City          string        `json:"city" validate:"max=200"`
	Latitude      *float64      `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64      `json:"longitude,omitempty" validate:"omitempty,longitude"`
	GeocodeToken  uint64        `json:"geocodeToken"`
}

// Restore rebuilds a session from a posted state.
func Restore(c Catalog, st State) (*Session, error) {
	mode, err := shipping.ParseMode(st.DeliveryMode)
	if err != nil {
		return nil, err
	}
	s, err := NewSession(c, st.Subtotal, mode)
	if err != nil {
		return nil, err
	}
	s.region = st.Region
	s.pickup = st.PickupPointID
	s.contact = Contact{FullName: st.FullName, Phone: st.Phone, Address: st.Address, City: st.City}
	if st.Latitude != nil && st.Longitude != nil {
		s.mapView.PinHome(LatLng{Lat: *st.Latitude, Lng: *st.Longitude})
	}
	s.seq.Restore(st.GeocodeToken)
	s.refreshPickupLocked()
	return s, nil
}

// Snapshot is everything the page renders after a change.
type Snapshot struct {
	State       State                 `json:"state"`
	Status      string                `json:"status"`
	Prompt      string                `json:"prompt,omitempty"`
	Quote       *shipping.Quote       `json:"quote,omitempty"`
	SavingsHint string                `json:"savingsHint,omitempty"`
	GrandTotal  *pricing.Money        `json:"grandTotal,omitempty"`
	Required    RequiredFields        `json:"required"`
	Map         MapViewState          `json:"map"`
	Viewport    Viewport              `json:"viewport"`
	Notice      string                `json:"notice,omitempty"`
	PickupPoint *stopdesk.PickupPoint `json:"pickupPoint,omitempty"`
	Gate        GateResult            `json:"gate"`
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Region:        s.region,
		DeliveryMode:  string(s.mode),
		Subtotal:      s.subtotal,
		PickupPointID: s.pickup,
		FullName:      s.contact.FullName,
		Phone:         s.contact.Phone,
		Address:       s.contact.Address,
		City:          s.contact.City,
		GeocodeToken:  s.seq.Current(),
	}
	if s.mapView.Home != nil {
		lat, lng := s.mapView.Home.Lat, s.mapView.Home.Lng
		st.Latitude, st.Longitude = &lat, &lng
	}
	snap := Snapshot{
		State:    st,
		Required: s.catalog.Policy.Required(s.mode),
		Map:      s.mapView,
		Viewport: s.mapView.Viewport(),
		Notice:   s.notice,
		Gate:     s.validateLocked(),
	}
	quote, err := shipping.Resolve(s.catalog.Rates, s.region, s.mode)
	switch {
	case errors.Is(err, shipping.ErrSelectionIncomplete):
		snap.Status = "incomplete"
		snap.Prompt = shipping.PromptSelectRegion
	case err == nil:
		total := quote.Total(s.subtotal)
		snap.Status = "priced"
		snap.Quote = &quote
		snap.SavingsHint = quote.SavingsHint()
		snap.GrandTotal = &total
	}
	if s.pickup != nil && s.mode == shipping.ModeStopDesk && s.catalog.Desks.InRegion(*s.pickup, s.region) {
		if p, err := s.catalog.Desks.Get(*s.pickup); err == nil {
			snap.PickupPoint = &p
		}
	}
	return snap
}
