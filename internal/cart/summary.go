// Package cart prices the storefront cart together with its delivery cost.
package cart

import (
	"errors"
	"net/http"

	"github.com/noah-isme/beehouse-checkout/internal/common"
	"github.com/noah-isme/beehouse-checkout/internal/pricing"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

// Line is one cart row as the page posts it.
type Line struct {
	ProductID string        `json:"productId" validate:"required,max=64"`
	Qty       int           `json:"qty"`
	UnitPrice pricing.Money `json:"unitPrice" validate:"gte=0,lte=1000000000000"`
}

// PricedLine is a Line after quantity clamping.
type PricedLine struct {
	ProductID string        `json:"productId"`
	Qty       int           `json:"qty"`
	UnitPrice pricing.Money `json:"unitPrice"`
	LineTotal pricing.Money `json:"lineTotal"`
	Clamped   bool          `json:"clamped,omitempty"`
}

// Summary is the cart total with an optional delivery quote.
type Summary struct {
	Lines       []PricedLine    `json:"lines"`
	Items       int             `json:"items"`
	Subtotal    pricing.Money   `json:"subtotal"`
	Status      string          `json:"status"`
	Prompt      string          `json:"prompt,omitempty"`
	Quote       *shipping.Quote `json:"quote,omitempty"`
	Shipping    pricing.Money   `json:"shipping"`
	GrandTotal  *pricing.Money  `json:"grandTotal,omitempty"`
	SavingsHint string          `json:"savingsHint,omitempty"`
}

// Service prices carts against a rate table.
type Service struct {
	Rates *shipping.RateTable
}

// Summarize clamps every quantity to 1..99, sums the lines and, when a region is
// given, adds its delivery cost for mode.
func (s *Service) Summarize(lines []Line, region string, mode shipping.Mode) (Summary, error) {
	priced := make([]PricedLine, 0, len(lines))
	items := make([]pricing.Item, 0, len(lines))
	for _, l := range lines {
		if err := pricing.CheckAmount(l.UnitPrice); err != nil {
			return Summary{}, common.NewAppError("VALIDATION_FAILED", "unit price out of range", http.StatusBadRequest, err).
				WithDetails(map[string]any{"productId": l.ProductID})
		}
		qty := pricing.ClampQty(l.Qty)
		it := pricing.Item{Qty: qty, UnitPrice: l.UnitPrice}
		items = append(items, it)
		priced = append(priced, PricedLine{
			ProductID: l.ProductID,
			Qty:       qty,
			UnitPrice: l.UnitPrice,
			LineTotal: it.LineTotal(),
			Clamped:   qty != l.Qty,
		})
	}

	quote, err := shipping.Resolve(s.Rates, region, mode)
	if errors.Is(err, shipping.ErrSelectionIncomplete) {
		sum := pricing.Compute(items, 0)
		return Summary{
			Lines:    priced,
			Items:    sum.Items,
			Subtotal: sum.Subtotal,
			Status:   "incomplete",
			Prompt:   shipping.PromptSelectRegion,
		}, nil
	}
	if err != nil {
		return Summary{}, err
	}
	sum := pricing.Compute(items, quote.Cost)
	return Summary{
		Lines:       priced,
		Items:       sum.Items,
		Subtotal:    sum.Subtotal,
		Status:      "priced",
		Quote:       &quote,
		Shipping:    sum.Shipping,
		GrandTotal:  &sum.Total,
		SavingsHint: quote.SavingsHint(),
	}, nil
}
