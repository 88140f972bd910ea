package pricing_test

import (
	"testing"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestShipping_Boundary(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{"exactly 100 is not free", "100.00", "9.99"},
		{"just above 100 is free", "100.01", "0"},
		{"zero", "0", "9.99"},
		{"well above", "250", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, d(tt.want).Equal(pricing.Shipping(d(tt.subtotal))))
		})
	}
}

func TestTotals_TwoAt4999(t *testing.T) {
	b := pricing.Totals([]pricing.Line{{UnitPrice: d("49.99"), Quantity: 2}})

	assert.Equal(t, "99.98", pricing.Display(b.Subtotal))
	assert.Equal(t, "9.99", pricing.Display(b.Shipping))
	assert.Equal(t, "109.97", pricing.Display(b.Total))
}

func TestSubtotal_AccumulatesAtFullPrecision(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("0.333"), Quantity: 3},
		{UnitPrice: d("0.333"), Quantity: 3},
	}

	assert.True(t, d("1.998").Equal(pricing.Subtotal(lines)))
	assert.Equal(t, "2.00", pricing.Display(pricing.Subtotal(lines)))
}

func TestCustomPCTotal_RAMExcluded(t *testing.T) {
	sel := pricing.Selection{
		Components: map[domain.Slot]*decimal.Decimal{
			domain.SlotCPU:         dp("200"),
			domain.SlotGPU:         dp("400"),
			domain.SlotRAM:         dp("100"),
			domain.SlotMotherboard: dp("150"),
			domain.SlotStorage:     dp("80"),
			domain.SlotCase:        dp("60"),
			domain.SlotPSU:         dp("70"),
			domain.SlotCooling:     dp("40"),
		},
		IncludeRAM: false,
	}

	assert.Equal(t, "1050.00", pricing.Display(pricing.CustomPCTotal(sel)))

	sel.IncludeRAM = true
	assert.Equal(t, "1150.00", pricing.Display(pricing.CustomPCTotal(sel)))
}

func TestCustomPCTotal_NilSlotsAreFree(t *testing.T) {
	sel := pricing.Selection{
		Components: map[domain.Slot]*decimal.Decimal{
			domain.SlotCPU: dp("199.90"),
			domain.SlotGPU: nil,
		},
		IncludeRAM: true,
	}

	assert.Equal(t, "249.90", pricing.Display(pricing.CustomPCTotal(sel)))
	assert.Equal(t, "50.00", pricing.Display(pricing.CustomPCTotal(pricing.Selection{})))
}

func TestApplyDiscount(t *testing.T) {
	got, err := pricing.ApplyDiscount(d("200"), d("10"))
	require.NoError(t, err)
	assert.Equal(t, "180.00", pricing.Display(got))

	// A second application compounds.
	again, err := pricing.ApplyDiscount(got, d("10"))
	require.NoError(t, err)
	assert.Equal(t, "162.00", pricing.Display(again))

	full, err := pricing.ApplyDiscount(d("99.99"), d("100"))
	require.NoError(t, err)
	assert.True(t, full.IsZero())

	_, err = pricing.ApplyDiscount(d("10"), d("101"))
	assert.True(t, domain.IsCode(err, domain.EINVALID))

	_, err = pricing.ApplyDiscount(d("10"), d("-1"))
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4999), pricing.MinorUnits(d("49.99")))
	assert.Equal(t, int64(1000), pricing.MinorUnits(d("9.995")))
	assert.Equal(t, int64(0), pricing.MinorUnits(decimal.Zero))
}
