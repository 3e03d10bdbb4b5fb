package geocode

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/common"
)

// Handler exposes reverse geocoding to the checkout page.
type Handler struct {
	Reverser Reverser
}

// Reverse answers GET /geocode/reverse?lat=&lng=.
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_COORDINATES", "lat and lng must be numbers", nil)
		return
	}
	addr, err := h.Reverser.Reverse(r.Context(), lat, lng)
	switch {
	case errors.Is(err, ErrInvalidCoordinates):
		common.JSONError(w, http.StatusBadRequest, "INVALID_COORDINATES", err.Error(), nil)
	case err != nil:
		zerolog.Ctx(r.Context()).Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("geocode_failed")
		common.JSONError(w, http.StatusServiceUnavailable, "GEOCODING_UNAVAILABLE", "address lookup unavailable, enter it manually", nil)
	default:
		common.Data(w, http.StatusOK, addr)
	}
}
