package cart

import (
	"net/http"

	"github.com/noah-isme/beehouse-checkout/internal/common"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

// Handler serves the cart summary.
type Handler struct {
	Svc *Service
}

type summaryRequest struct {
	Items        []Line `json:"items" validate:"max=200,dive"`
	Region       string `json:"region"`
	DeliveryMode string `json:"deliveryMode"`
}

// Summary prices the posted cart lines.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	mode, err := shipping.ParseMode(req.DeliveryMode)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_DELIVERY_MODE", err.Error(), nil)
		return
	}
	sum, err := h.Svc.Summarize(req.Items, req.Region, mode)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, sum)
}
