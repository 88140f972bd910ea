// Package pricing computes cart totals, custom build quotes and admin
// discounts. Amounts accumulate at full decimal precision; rounding to cents
// happens only in Display and MinorUnits.
package pricing

import (
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold must be strictly exceeded for free shipping.
	FreeShippingThreshold = decimal.NewFromInt(100)

	// FlatShipping applies at or below the threshold.
	FlatShipping = decimal.RequireFromString("9.99")

	// AssemblyFee is added to every custom build.
	AssemblyFee = decimal.NewFromInt(50)

	hundred = decimal.NewFromInt(100)
)

// Line is one priced cart line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Breakdown holds the totals shown at checkout.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// LinesFromCart adapts cart items to pricing lines.
func LinesFromCart(c domain.Cart) []Line {
	lines := make([]Line, len(c))
	for i, it := range c {
		lines[i] = Line{UnitPrice: it.Product.Price, Quantity: it.Quantity}
	}
	return lines
}

// Subtotal is the sum of price times quantity.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Shipping is free only when subtotal is strictly greater than the threshold.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShipping
}

// Totals computes subtotal, shipping and total for the given lines.
func Totals(lines []Line) Breakdown {
	sub := Subtotal(lines)
	ship := Shipping(sub)
	return Breakdown{
		Subtotal: sub,
		Shipping: ship,
		Total:    sub.Add(ship),
	}
}

// Selection is a custom build. Nil slots are unselected and cost nothing.
type Selection struct {
	Components map[domain.Slot]*decimal.Decimal
	IncludeRAM bool
}

// CustomPCTotal sums the selected component prices plus AssemblyFee.
// RAM is left out when IncludeRAM is false.
func CustomPCTotal(sel Selection) decimal.Decimal {
	total := AssemblyFee
	for slot, price := range sel.Components {
		if price == nil {
			continue
		}
		if slot == domain.SlotRAM && !sel.IncludeRAM {
			continue
		}
		total = total.Add(*price)
	}
	return total
}

// ApplyDiscount returns price reduced by percent. Each call compounds on
// the price it is given.
func ApplyDiscount(price decimal.Decimal, percent decimal.Decimal) (decimal.Decimal, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Zero, domain.Errorf(domain.EINVALID, "pricing.discount",
			"discount must be between 0 and 100, got %s", percent.String())
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(hundred))
	return price.Mul(factor), nil
}

// Display rounds to cents for presentation.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// MinorUnits converts a EUR amount to whole cents, rounding half away from zero.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}
