package stopdesk

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/beehouse-checkout/internal/common"
)

// Handler serves the pickup-point directory.
type Handler struct {
	Directory *Directory
}

// List returns the active points of the region query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		common.JSONError(w, http.StatusBadRequest, "MISSING_REGION", "region is required", nil)
		return
	}
	points := h.Directory.ByRegion(region)
	common.JSON(w, http.StatusOK, map[string]any{
		"data":  points,
		"count": len(points),
	})
}

// Get returns one point by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	p, err := h.Directory.Get(id)
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "pickup point not found", nil)
		return
	}
	common.Data(w, http.StatusOK, p)
}
