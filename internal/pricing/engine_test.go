package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/pricing"
)

func TestGrandTotalIsPlainAddition(t *testing.T) {
	cases := []struct{ subtotal, cost pricing.Money }{
		{0, 0},
		{0, 600},
		{4500, 400},
		{12999, 2200},
		{1_000_000, 800},
	}
	for _, tc := range cases {
		require.Equal(t, tc.subtotal+tc.cost, pricing.GrandTotal(tc.subtotal, tc.cost))
	}
}

func TestComputeSkipsEmptyLines(t *testing.T) {
	items := []pricing.Item{
		{Qty: 2, UnitPrice: 1500},
		{Qty: 0, UnitPrice: 9999},
		{Qty: 1, UnitPrice: 700},
	}
	summary := pricing.Compute(items, 450)
	require.Equal(t, 3, summary.Items)
	require.Equal(t, pricing.Money(3700), summary.Subtotal)
	require.Equal(t, pricing.Money(450), summary.Shipping)
	require.Equal(t, pricing.Money(4150), summary.Total)
}

func TestQuantityBounds(t *testing.T) {
	require.Equal(t, 1, pricing.ClampQty(-3))
	require.Equal(t, 1, pricing.ClampQty(0))
	require.Equal(t, 42, pricing.ClampQty(42))
	require.Equal(t, 99, pricing.ClampQty(150))

	require.Equal(t, 2, pricing.Increase(1))
	require.Equal(t, 99, pricing.Increase(98))
	require.Equal(t, 99, pricing.Increase(99))

	require.Equal(t, 1, pricing.Decrease(1))
	require.Equal(t, 1, pricing.Decrease(2))
	require.Equal(t, 98, pricing.Decrease(99))
}

func TestCheckAmountBounds(t *testing.T) {
	require.NoError(t, pricing.CheckAmount(0))
	require.NoError(t, pricing.CheckAmount(pricing.MaxAmount))
	require.ErrorIs(t, pricing.CheckAmount(pricing.MaxAmount+1), pricing.ErrAmountOutOfRange)
	require.ErrorIs(t, pricing.CheckAmount(-1), pricing.ErrAmountOutOfRange)

	item := pricing.Item{Qty: pricing.MaxQty, UnitPrice: pricing.MaxAmount}
	total := pricing.GrandTotal(item.LineTotal(), pricing.MaxAmount)
	require.Positive(t, total)
	require.Equal(t, pricing.Money(pricing.MaxQty+1)*pricing.MaxAmount, total)
}
