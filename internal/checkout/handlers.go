package checkout

import (
	"errors"
	"net/http"

	"github.com/noah-isme/beehouse-checkout/internal/common"
	"github.com/noah-isme/beehouse-checkout/internal/geocode"
	"github.com/noah-isme/beehouse-checkout/internal/order"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

// Handler exposes checkout sessions over HTTP. The page posts its State with every
// call and receives the next Snapshot; nothing is kept server-side.
type Handler struct {
	Svc *Service
}

type regionRequest struct {
	State  State  `json:"state"`
	Region string `json:"region"`
}

type modeRequest struct {
	State        State  `json:"state"`
	DeliveryMode string `json:"deliveryMode" validate:"required"`
}

type pickupRequest struct {
	State         State `json:"state"`
	PickupPointID int64 `json:"pickupPointId" validate:"gt=0"`
}

// locationRequest carries the page's click number. It must exceed state.geocodeToken
// and grow with every click; the reply echoes it as pin.token.
type locationRequest struct {
	State State    `json:"state"`
	Token uint64   `json:"token" validate:"required"`
	Lat   *float64 `json:"lat" validate:"required"`
	Lng   *float64 `json:"lng" validate:"required"`
}

type stateRequest struct {
	State State `json:"state"`
}

type submitResponse struct {
	Receipt  order.Receipt `json:"receipt"`
	Snapshot Snapshot      `json:"snapshot"`
}

func (h *Handler) restore(w http.ResponseWriter, st State) (*Session, bool) {
	s, err := Restore(h.Svc.Catalog, st)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

// Open returns the first snapshot for a page.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	common.Data(w, http.StatusOK, s.Snapshot())
}

// SetRegion applies a region change.
func (h *Handler) SetRegion(w http.ResponseWriter, r *http.Request) {
	var req regionRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	s.SetRegion(req.Region)
	common.Data(w, http.StatusOK, s.Snapshot())
}

// SetMode applies a delivery-mode change.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	mode, err := shipping.ParseMode(req.DeliveryMode)
	if err == nil {
		err = s.SetMode(mode)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, s.Snapshot())
}

// SelectPickupPoint chooses a pickup point.
func (h *Handler) SelectPickupPoint(w http.ResponseWriter, r *http.Request) {
	var req pickupRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	if err := s.SelectPickupPoint(req.PickupPointID); err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, s.Snapshot())
}

// PinLocation drops the home pin and fills the address when the lookup succeeds.
// The page applies the returned snapshot only when pin.token is its latest click.
func (h *Handler) PinLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	pin, err := s.PinLocationAs(r.Context(), h.Svc.Geocoder, req.Token, *req.Lat, *req.Lng)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": s.Snapshot(),
		"pin":  pin,
	})
}

// Validate runs the form gate without submitting.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	res := s.Validate()
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	common.Data(w, status, res)
}

// Submit gates the form and forwards it to the order endpoint.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	s, ok := h.restore(w, req.State)
	if !ok {
		return
	}
	receipt, err := h.Svc.Submit(r.Context(), s, common.IdempotencyKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, submitResponse{Receipt: receipt, Snapshot: s.Snapshot()})
}

func writeError(w http.ResponseWriter, err error) {
	var gateErr *GateError
	switch {
	case errors.As(err, &gateErr):
		common.JSONError(w, http.StatusUnprocessableEntity, string(gateErr.Result.Reason), gateErr.Result.Message, nil)
	case errors.Is(err, shipping.ErrInvalidMode):
		common.JSONError(w, http.StatusBadRequest, "INVALID_DELIVERY_MODE", err.Error(), nil)
	case errors.Is(err, ErrNegativeSubtotal), errors.Is(err, ErrSubtotalTooLarge):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	case errors.Is(err, geocode.ErrInvalidCoordinates):
		common.JSONError(w, http.StatusBadRequest, "INVALID_COORDINATES", err.Error(), nil)
	case errors.Is(err, ErrPickupPointNotInRegion):
		common.JSONError(w, http.StatusUnprocessableEntity, "PICKUP_POINT_UNAVAILABLE", err.Error(), nil)
	case errors.Is(err, ErrNotStopDesk):
		common.JSONError(w, http.StatusConflict, "NOT_STOP_DESK", err.Error(), nil)
	default:
		if common.IsAppError(err) {
			common.WriteError(w, err)
			return
		}
		common.JSONError(w, http.StatusBadGateway, "ORDER_SUBMISSION_FAILED", "order could not be placed, please retry", nil)
	}
}
