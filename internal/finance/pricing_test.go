package finance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name string
		in   LineInput
		want LinePricing
	}{
		{
			name: "discount then tax",
			in:   LineInput{Quantity: 2, UnitPriceHT: 1000, DiscountPct: 10, TaxPct: 19},
			want: LinePricing{GrossHT: 2000, DiscountAmount: 200, NetHT: 1800, TaxAmount: 342, TotalTTC: 2142},
		},
		{
			name: "no discount no tax",
			in:   LineInput{Quantity: 3, UnitPriceHT: 450},
			want: LinePricing{GrossHT: 1350, NetHT: 1350, TotalTTC: 1350},
		},
		{
			name: "zero quantity prices to zero",
			in:   LineInput{Quantity: 0, UnitPriceHT: 1000, DiscountPct: 10, TaxPct: 19},
			want: LinePricing{},
		},
		{
			name: "full discount frees the line",
			in:   LineInput{Quantity: 1, UnitPriceHT: 500, DiscountPct: 100, TaxPct: 19},
			want: LinePricing{GrossHT: 500, DiscountAmount: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceLine(tt.in)
			require.NoError(t, err)
			require.InDelta(t, tt.want.GrossHT, got.GrossHT, 1e-9)
			require.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 1e-9)
			require.InDelta(t, tt.want.NetHT, got.NetHT, 1e-9)
			require.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			require.InDelta(t, tt.want.TotalTTC, got.TotalTTC, 1e-9)
			require.False(t, got.Unusual)
		})
	}
}

func TestPriceLineRejectsNegatives(t *testing.T) {
	tests := []struct {
		name  string
		in    LineInput
		field string
	}{
		{"negative quantity", LineInput{Quantity: -1, UnitPriceHT: 100}, "quantity"},
		{"negative price", LineInput{Quantity: 1, UnitPriceHT: -100}, "unit_price_ht"},
		{"negative discount", LineInput{Quantity: 1, UnitPriceHT: 100, DiscountPct: -5}, "discount_pct"},
		{"negative tax", LineInput{Quantity: 1, UnitPriceHT: 100, TaxPct: -19}, "tax_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PriceLine(tt.in)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestPriceLineFlagsRatesAbove100(t *testing.T) {
	got, err := PriceLine(LineInput{Quantity: 1, UnitPriceHT: 100, DiscountPct: 120})
	require.NoError(t, err)
	require.True(t, got.Unusual)
	require.InDelta(t, -20, got.NetHT, 1e-9)

	got, err = PriceLine(LineInput{Quantity: 1, UnitPriceHT: 100, TaxPct: 110})
	require.NoError(t, err)
	require.True(t, got.Unusual)
}
