package finance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func refLine() LineInput {
	return LineInput{Quantity: 2, UnitPriceHT: 1000, DiscountPct: 10, TaxPct: 19}
}

func TestComputeTotalsAppliesGlobalDiscountOnce(t *testing.T) {
	doc := DocumentInput{
		Kind:        KindFacture,
		DiscountPct: 5,
		Lines:       []LineInput{refLine()},
	}

	got, err := ComputeTotals(doc, nil)
	require.NoError(t, err)
	require.InDelta(t, 1800, got.HT, 1e-9)
	require.InDelta(t, 342, got.TVA, 1e-9)
	require.InDelta(t, 2142, got.PreDiscountTTC, 1e-9)
	require.InDelta(t, 107.10, got.RemiseGlobale, 1e-9)
	require.InDelta(t, 2034.90, got.TTC, 1e-9)
	require.Zero(t, got.Paid)
	require.InDelta(t, 2034.90, got.Remaining, 1e-9)
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	doc := DocumentInput{
		Kind:        KindFacture,
		DiscountPct: 7.5,
		Lines: []LineInput{
			refLine(),
			{Quantity: 12, UnitPriceHT: 830.25, DiscountPct: 2.5, TaxPct: 19},
			{Quantity: 0.5, UnitPriceHT: 14000, TaxPct: 9},
		},
	}
	payments := []Payment{{InvoiceID: 1, Amount: 5000}, {InvoiceID: 1, Amount: 1234.56}}

	first, err := ComputeTotals(doc, payments)
	require.NoError(t, err)
	second, err := ComputeTotals(doc, payments)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeTotalsZeroLines(t *testing.T) {
	got, err := ComputeTotals(DocumentInput{Kind: KindFacture, DiscountPct: 10}, nil)
	require.NoError(t, err)
	require.Equal(t, Totals{}, got)
}

func TestComputeTotalsClampsRemainingAtZero(t *testing.T) {
	doc := DocumentInput{Kind: KindFacture, Lines: []LineInput{{Quantity: 1, UnitPriceHT: 100}}}

	got, err := ComputeTotals(doc, []Payment{{Amount: 150}})
	require.NoError(t, err)
	require.InDelta(t, 150, got.Paid, 1e-9)
	require.Zero(t, got.Remaining)
}

func TestComputeTotalsClampsGlobalDiscountAt100(t *testing.T) {
	doc := DocumentInput{
		Kind:        KindFacture,
		DiscountPct: 130,
		Lines:       []LineInput{{Quantity: 1, UnitPriceHT: 100, TaxPct: 19}},
	}

	got, err := ComputeTotals(doc, nil)
	require.NoError(t, err)
	require.Zero(t, got.TTC)
	require.InDelta(t, 119, got.RemiseGlobale, 1e-9)
}

func TestComputeTotalsQuoteCarriesNoPaymentState(t *testing.T) {
	doc := DocumentInput{Kind: KindDevis, Lines: []LineInput{refLine()}}

	got, err := ComputeTotals(doc, []Payment{{Amount: 500}})
	require.NoError(t, err)
	require.Zero(t, got.Paid)
	require.Zero(t, got.Remaining)
	require.InDelta(t, 2142, got.TTC, 1e-9)
}

func TestComputeTotalsRejectsNegativeDiscount(t *testing.T) {
	_, err := ComputeTotals(DocumentInput{Kind: KindFacture, DiscountPct: -1}, nil)
	require.ErrorIs(t, err, ErrValidation)
}
