package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/checkout"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
	"github.com/noah-isme/beehouse-checkout/internal/stopdesk"
)

func testCatalog(t *testing.T) checkout.Catalog {
	t.Helper()
	desks, err := stopdesk.LoadDirectory("")
	require.NoError(t, err)
	return checkout.Catalog{Rates: shipping.DefaultRates(), Desks: desks, Policy: checkout.DefaultPolicy()}
}

func newSession(t *testing.T, subtotal int64) *checkout.Session {
	t.Helper()
	s, err := checkout.NewSession(testCatalog(t), subtotal, "")
	require.NoError(t, err)
	return s
}
