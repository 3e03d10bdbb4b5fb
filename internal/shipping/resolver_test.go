package shipping_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/shipping"
)

func TestResolveScenarios(t *testing.T) {
	table := shipping.DefaultRates()

	home, err := shipping.Resolve(table, "Mostaganem", shipping.ModeHome)
	require.NoError(t, err)
	require.Equal(t, int64(600), home.Cost)

	stop, err := shipping.Resolve(table, "Mostaganem", shipping.ModeStopDesk)
	require.NoError(t, err)
	require.Equal(t, int64(400), stop.Cost)
	require.Equal(t, int64(200), stop.Savings)
	require.Equal(t, "400 DZD (Save 200 DZD!)", stop.SavingsHint())

	djanet, err := shipping.Resolve(table, "Djanet", shipping.ModeStopDesk)
	require.NoError(t, err)
	require.Equal(t, int64(2200), djanet.Cost)
	require.Equal(t, int64(0), djanet.Savings)
	require.True(t, djanet.Known)
}

func TestResolveIncompleteSelection(t *testing.T) {
	table := shipping.DefaultRates()
	for _, region := range []string{"", "   "} {
		q, err := shipping.Resolve(table, region, shipping.ModeHome)
		require.ErrorIs(t, err, shipping.ErrSelectionIncomplete)
		require.Equal(t, shipping.Quote{}, q)
	}
}

func TestResolveUnknownRegionUsesFallback(t *testing.T) {
	q, err := shipping.Resolve(shipping.DefaultRates(), "Atlantis", shipping.ModeStopDesk)
	require.NoError(t, err)
	require.Equal(t, int64(800), q.Cost)
	require.False(t, q.Known)
}

func TestResolveNegativeSavingsIsReported(t *testing.T) {
	table, err := shipping.NewRateTable(map[string]shipping.RateEntry{"Odd": {HomePrice: 500, StopDeskPrice: 700}})
	require.NoError(t, err)
	q, err := shipping.Resolve(table, "Odd", shipping.ModeStopDesk)
	require.NoError(t, err)
	require.Equal(t, int64(700), q.Cost)
	require.Equal(t, int64(-200), q.Savings)
}

func TestResolveIsPureAndOrderIndependent(t *testing.T) {
	table := shipping.DefaultRates()
	for _, region := range table.Regions() {
		h1, err := shipping.Resolve(table, region, shipping.ModeHome)
		require.NoError(t, err)
		s1, err := shipping.Resolve(table, region, shipping.ModeStopDesk)
		require.NoError(t, err)
		s2, err := shipping.Resolve(table, region, shipping.ModeStopDesk)
		require.NoError(t, err)
		h2, err := shipping.Resolve(table, region, shipping.ModeHome)
		require.NoError(t, err)
		require.Equal(t, h1, h2)
		require.Equal(t, s1, s2)
		require.Equal(t, table.Lookup(region).HomePrice, h1.Cost)
		require.Equal(t, table.Lookup(region).StopDeskPrice, s1.Cost)
	}
}

func TestResolveRejectsUnknownMode(t *testing.T) {
	_, err := shipping.Resolve(shipping.DefaultRates(), "Oran", shipping.Mode("drone"))
	require.ErrorIs(t, err, shipping.ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	mode, err := shipping.ParseMode("")
	require.NoError(t, err)
	require.Equal(t, shipping.ModeHome, mode)

	mode, err = shipping.ParseMode("STOP_DESK")
	require.NoError(t, err)
	require.Equal(t, shipping.ModeStopDesk, mode)

	_, err = shipping.ParseMode("pickup")
	require.ErrorIs(t, err, shipping.ErrInvalidMode)
}

func TestQuoteTotal(t *testing.T) {
	q, err := shipping.Resolve(shipping.DefaultRates(), "Alger", shipping.ModeHome)
	require.NoError(t, err)
	require.Equal(t, int64(5700), q.Total(5000))
}
