package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/cart"
	"github.com/noah-isme/beehouse-checkout/internal/pricing"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

func TestSummarizeClampsAndPrices(t *testing.T) {
	svc := &cart.Service{Rates: shipping.DefaultRates()}
	sum, err := svc.Summarize([]cart.Line{
		{ProductID: "honey-500g", Qty: 2, UnitPrice: 1500},
		{ProductID: "propolis", Qty: 0, UnitPrice: 900},
		{ProductID: "wax", Qty: 150, UnitPrice: 10},
	}, "Oran", shipping.ModeStopDesk)
	require.NoError(t, err)

	require.Equal(t, 1, sum.Lines[1].Qty)
	require.True(t, sum.Lines[1].Clamped)
	require.Equal(t, 99, sum.Lines[2].Qty)
	require.Equal(t, int64(3000+900+990), sum.Subtotal)
	require.Equal(t, 102, sum.Items)
	require.Equal(t, int64(450), sum.Shipping)
	require.Equal(t, sum.Subtotal+450, *sum.GrandTotal)
	require.Equal(t, "450 DZD (Save 300 DZD!)", sum.SavingsHint)
}

func TestSummarizeWithoutRegion(t *testing.T) {
	svc := &cart.Service{Rates: shipping.DefaultRates()}
	sum, err := svc.Summarize([]cart.Line{{ProductID: "honey", Qty: 1, UnitPrice: 1200}}, "", shipping.ModeHome)
	require.NoError(t, err)
	require.Equal(t, "incomplete", sum.Status)
	require.Nil(t, sum.GrandTotal)
	require.Equal(t, int64(1200), sum.Subtotal)
}

func TestSummaryHandler(t *testing.T) {
	h := &cart.Handler{Svc: &cart.Service{Rates: shipping.DefaultRates()}}
	body := `{"items":[{"productId":"honey","qty":3,"unitPrice":1000}],"region":"Atlantis","deliveryMode":"home"}`
	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodPost, "/cart/summary", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data cart.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, int64(800), env.Data.Shipping)
	require.Equal(t, int64(3800), *env.Data.GrandTotal)
	require.False(t, env.Data.Quote.Known)

	rec = httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodPost, "/cart/summary", strings.NewReader(`{"items":[{"qty":1,"unitPrice":5}]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummarizeRejectsUnitPriceAboveCap(t *testing.T) {
	svc := &cart.Service{Rates: shipping.DefaultRates()}
	_, err := svc.Summarize([]cart.Line{{ProductID: "gold", Qty: 99, UnitPrice: pricing.MaxAmount + 1}}, "Oran", shipping.ModeHome)
	require.ErrorIs(t, err, pricing.ErrAmountOutOfRange)

	sum, err := svc.Summarize([]cart.Line{{ProductID: "gold", Qty: 99, UnitPrice: pricing.MaxAmount}}, "Oran", shipping.ModeHome)
	require.NoError(t, err)
	require.Equal(t, 99*pricing.MaxAmount+750, *sum.GrandTotal)
}

func TestSummaryHandlerRejectsHugeUnitPrice(t *testing.T) {
	h := &cart.Handler{Svc: &cart.Service{Rates: shipping.DefaultRates()}}
	req := httptest.NewRequest(http.MethodPost, "/cart/summary",
		strings.NewReader(`{"items":[{"productId":"gold","qty":1,"unitPrice":9223372036854775807}],"region":"Oran"}`))
	rec := httptest.NewRecorder()
	h.Summary(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}
