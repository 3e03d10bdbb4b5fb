package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/geocode"
	"github.com/noah-isme/beehouse-checkout/internal/obs"
	"github.com/noah-isme/beehouse-checkout/internal/order"
	"github.com/noah-isme/beehouse-checkout/internal/phone"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

// GateError is returned by Submit when the form gate blocks the submission.
type GateError struct {
	Result GateResult
}

func (e *GateError) Error() string {
	return "checkout: blocked by " + string(e.Result.Reason)
}

// submissionNamespace scopes SubmissionIDFor so the same Idempotency-Key always maps
// to the same submission id.
var submissionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:beehouse:checkout:submission"))

// SubmissionIDFor derives the submission id forwarded to the order endpoint from the
// client's Idempotency-Key. A retried click carries the same key and so the same id.
func SubmissionIDFor(idempotencyKey string) string {
	return uuid.NewSHA1(submissionNamespace, []byte(idempotencyKey)).String()
}

// Service submits validated sessions to the order endpoint.
type Service struct {
	Catalog   Catalog
	Geocoder  geocode.Reverser
	Submitter order.Submitter
	NewID     func() string
}

// Submit gates the session, prices it from the rate table and forwards it.
// A blocked session never reaches the submitter. When idempotencyKey is set the
// submission id is derived from it, otherwise NewID supplies a fresh one.
func (svc *Service) Submit(ctx context.Context, s *Session, idempotencyKey string) (order.Receipt, error) {
	logger := zerolog.Ctx(ctx)

	gate := s.Validate()
	if !gate.OK {
		obs.CountGate(string(gate.Reason))
		logger.Info().Str("reason", string(gate.Reason)).Msg("checkout_blocked")
		return order.Receipt{}, &GateError{Result: gate}
	}
	obs.CountGate("ok")

	payload, err := svc.payload(s, idempotencyKey)
	if err != nil {
		return order.Receipt{}, err
	}
	if svc.Submitter == nil {
		return order.Receipt{}, errors.New("checkout: order submitter not configured")
	}
	receipt, err := svc.Submitter.Submit(ctx, payload)
	if err != nil {
		obs.CountSubmission("error")
		logger.Error().Err(err).Str("submission_id", payload.SubmissionID).Msg("order_submit_failed")
		return order.Receipt{}, err
	}
	obs.CountSubmission("ok")
	logger.Info().
		Str("submission_id", payload.SubmissionID).
		Int64("order_id", receipt.OrderID).
		Str("wilaya", payload.Region).
		Str("delivery_type", string(payload.DeliveryMode)).
		Int64("shipping_cost", payload.ShippingCost).
		Msg("order_submitted")
	return receipt, nil
}

func (svc *Service) payload(s *Session, idempotencyKey string) (order.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := shipping.Resolve(s.catalog.Rates, s.region, s.mode)
	if err != nil {
		return order.Payload{}, fmt.Errorf("price submission: %w", err)
	}
	var id string
	switch {
	case idempotencyKey != "":
		id = SubmissionIDFor(idempotencyKey)
	case svc.NewID != nil:
		id = svc.NewID()
	default:
		id = uuid.NewString()
	}
	p := order.Payload{
		SubmissionID: id,
		Region:       s.region,
		DeliveryMode: s.mode,
		ShippingCost: quote.Cost,
		Subtotal:     s.subtotal,
		Total:        quote.Total(s.subtotal),
		FullName:     s.contact.FullName,
		Phone:        phone.Normalize(s.contact.Phone),
		Address:      s.contact.Address,
		City:         s.contact.City,
	}
	if s.mode == shipping.ModeStopDesk {
		p.PickupPointID = s.pickup
	}
	if s.mapView.Home != nil {
		lat, lng := s.mapView.Home.Lat, s.mapView.Home.Lng
		p.Latitude, p.Longitude = &lat, &lng
	}
	return p, nil
}
