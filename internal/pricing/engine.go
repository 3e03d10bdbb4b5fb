package pricing

import (
	"errors"
	"fmt"
)

// Money represents a monetary value in whole DZD.
type Money = int64

// MaxAmount bounds every subtotal, unit price and tariff the service accepts. Sums of
// bounded amounts, and 99 x MaxAmount line totals, stay far inside int64.
const MaxAmount Money = 1_000_000_000_000

// ErrAmountOutOfRange is returned for amounts below zero or above MaxAmount.
var ErrAmountOutOfRange = errors.New("pricing: amount out of range")

// CheckAmount reports whether m lies in [0, MaxAmount].
func CheckAmount(m Money) error {
	if m < 0 || m > MaxAmount {
		return fmt.Errorf("%w: %d", ErrAmountOutOfRange, m)
	}
	return nil
}

const (
	// MinQty is the lowest quantity a cart line can hold.
	MinQty = 1
	// MaxQty is the highest quantity a cart line can hold.
	MaxQty = 99
)

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int   `json:"qty"`
	UnitPrice Money `json:"unitPrice"`
}

// LineTotal returns qty x unit price, or zero for non-positive quantities.
func (it Item) LineTotal() Money {
	if it.Qty <= 0 {
		return 0
	}
	return Money(it.Qty) * it.UnitPrice
}

// Summary aggregates computed pricing components.
type Summary struct {
	Items    int   `json:"items"`
	Subtotal Money `json:"subtotal"`
	Shipping Money `json:"shipping"`
	Total    Money `json:"total"`
}

// GrandTotal is the cart subtotal plus the resolved shipping cost. No rounding is applied.
func GrandTotal(subtotal, shipping Money) Money {
	return subtotal + shipping
}

// Compute calculates cart totals for the provided items and shipping cost.
func Compute(items []Item, shipping Money) Summary {
	var (
		subtotal Money
		count    int
	)
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += it.LineTotal()
		count += it.Qty
	}
	return Summary{
		Items:    count,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    GrandTotal(subtotal, shipping),
	}
}

// ClampQty bounds a requested quantity to [MinQty, MaxQty].
func ClampQty(qty int) int {
	if qty < MinQty {
		return MinQty
	}
	if qty > MaxQty {
		return MaxQty
	}
	return qty
}

// Increase returns qty+1 unless qty already sits at MaxQty.
func Increase(qty int) int {
	if qty < MaxQty {
		return ClampQty(qty + 1)
	}
	return MaxQty
}

// Decrease returns qty-1 unless qty already sits at MinQty.
func Decrease(qty int) int {
	if qty > MinQty {
		return ClampQty(qty - 1)
	}
	return MinQty
}
