package shipping

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/beehouse-checkout/internal/common"
	"github.com/noah-isme/beehouse-checkout/internal/obs"
	"github.com/noah-isme/beehouse-checkout/internal/pricing"
)

// PromptSelectRegion is shown instead of a price until a region is chosen.
const PromptSelectRegion = "Select wilaya first"

// Handler exposes the rate table and the resolver over HTTP.
type Handler struct {
	Rates *RateTable
}

type rateView struct {
	Region string `json:"region"`
	RateEntry
}

// List returns every region with its two prices.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	regions := h.Rates.Regions()
	out := make([]rateView, 0, len(regions))
	for _, region := range regions {
		out = append(out, rateView{Region: region, RateEntry: h.Rates.Lookup(region)})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":     out,
		"fallback": DefaultEntry,
	})
}

// Get returns the entry for one region. Unknown regions answer with the fallback entry.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	region, err := url.PathUnescape(chi.URLParam(r, "region"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid region", nil)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"region":        region,
		"homePrice":     h.Rates.Lookup(region).HomePrice,
		"stopDeskPrice": h.Rates.Lookup(region).StopDeskPrice,
		"known":         h.Rates.Known(region),
	})
}

// QuoteRequest is the body accepted by Quote.
type QuoteRequest struct {
	Region       string        `json:"region"`
	DeliveryMode string        `json:"deliveryMode"`
	Subtotal     pricing.Money `json:"subtotal" validate:"gte=0,lte=1000000000000"`
}

// QuoteResponse is either a priced quote or a prompt when the selection is incomplete.
type QuoteResponse struct {
	Status      string         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Quote       *Quote         `json:"quote,omitempty"`
	SavingsHint string         `json:"savingsHint,omitempty"`
	Subtotal    pricing.Money  `json:"subtotal"`
	GrandTotal  *pricing.Money `json:"grandTotal,omitempty"`
}

// BuildQuoteResponse runs the resolver and shapes its result for clients.
func BuildQuoteResponse(table *RateTable, region string, mode Mode, subtotal pricing.Money) (QuoteResponse, error) {
	if err := pricing.CheckAmount(subtotal); err != nil {
		return QuoteResponse{}, common.NewAppError("VALIDATION_FAILED", "subtotal out of range", http.StatusBadRequest, err)
	}
	quote, err := Resolve(table, region, mode)
	if errors.Is(err, ErrSelectionIncomplete) {
		obs.CountQuote(string(mode), "incomplete")
		return QuoteResponse{Status: "incomplete", Message: PromptSelectRegion, Subtotal: subtotal}, nil
	}
	if err != nil {
		return QuoteResponse{}, err
	}
	result := "priced"
	if !quote.Known {
		result = "fallback"
	}
	obs.CountQuote(string(mode), result)
	total := quote.Total(subtotal)
	return QuoteResponse{
		Status:      "priced",
		Quote:       &quote,
		SavingsHint: quote.SavingsHint(),
		Subtotal:    subtotal,
		GrandTotal:  &total,
	}, nil
}

// Quote resolves the shipping cost and grand total for a region and delivery mode.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := common.Bind(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	mode, err := ParseMode(req.DeliveryMode)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_DELIVERY_MODE", err.Error(), nil)
		return
	}
	resp, err := BuildQuoteResponse(h.Rates, req.Region, mode, req.Subtotal)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, resp)
}
