package finance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		name   string
		stored DocumentStatus
		totals Totals
		want   DocumentStatus
	}{
		{"draft passes through", StatusBrouillon, Totals{TTC: 100}, StatusBrouillon},
		{"cancelled passes through", StatusAnnulee, Totals{TTC: 100, Paid: 100}, StatusAnnulee},
		{"no payments stays validated", StatusValidee, Totals{TTC: 100, Remaining: 100}, StatusValidee},
		{"partial payment", StatusValidee, Totals{TTC: 100, Paid: 40, Remaining: 60}, StatusPartielle},
		{"settled", StatusValidee, Totals{TTC: 100, Paid: 100, Remaining: 0}, StatusPayee},
		{"stale stored status cannot desync", StatusPartielle, Totals{TTC: 100, Paid: 100, Remaining: 0}, StatusPayee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveInvoiceStatus(tt.stored, tt.totals))
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		kind DocumentKind
		from DocumentStatus
		to   DocumentStatus
		want bool
	}{
		{"invoice validate", KindFacture, StatusBrouillon, StatusValidee, true},
		{"invoice cancel from validated", KindFacture, StatusValidee, StatusAnnulee, true},
		{"invoice cancel from partial", KindFacture, StatusPartielle, StatusAnnulee, true},
		{"paid invoice is final", KindFacture, StatusPayee, StatusAnnulee, false},
		{"no backward transition", KindFacture, StatusValidee, StatusBrouillon, false},
		{"quote send", KindDevis, StatusBrouillon, StatusEnvoye, true},
		{"quote accept", KindDevis, StatusEnvoye, StatusAccepte, true},
		{"quote refuse", KindDevis, StatusEnvoye, StatusRefuse, true},
		{"quote expire", KindDevis, StatusEnvoye, StatusExpire, true},
		{"quote cannot be validated", KindDevis, StatusBrouillon, StatusValidee, false},
		{"accepted quote is final", KindDevis, StatusAccepte, StatusEnvoye, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanTransition(tt.kind, tt.from, tt.to))
		})
	}
}

func TestAdmitPaymentBoundary(t *testing.T) {
	totals, err := ComputeTotals(DocumentInput{
		Kind:        KindFacture,
		DiscountPct: 5,
		Lines:       []LineInput{{Quantity: 2, UnitPriceHT: 1000, DiscountPct: 10, TaxPct: 19}},
	}, nil)
	require.NoError(t, err)

	// Paying the exact remaining balance settles the invoice.
	require.NoError(t, AdmitPayment(KindFacture, StatusValidee, totals.Remaining, totals.Remaining))

	err = AdmitPayment(KindFacture, StatusValidee, totals.Remaining, totals.Remaining+0.01)
	require.ErrorIs(t, err, ErrPaymentRejected)
	require.Equal(t, ReasonExceedsBalance, RejectionReasonOf(err))

	err = AdmitPayment(KindFacture, StatusValidee, totals.Remaining, 0)
	require.Equal(t, ReasonNonPositiveAmount, RejectionReasonOf(err))

	err = AdmitPayment(KindFacture, StatusValidee, totals.Remaining, -10)
	require.Equal(t, ReasonNonPositiveAmount, RejectionReasonOf(err))
}

func TestAdmitPaymentRejectsWrongTargets(t *testing.T) {
	err := AdmitPayment(KindDevis, StatusEnvoye, 100, 50)
	require.Equal(t, ReasonWrongDocumentKind, RejectionReasonOf(err))

	err = AdmitPayment(KindFacture, StatusAnnulee, 100, 50)
	require.Equal(t, ReasonDocumentCancelled, RejectionReasonOf(err))

	// Delivery notes share the invoice payment behaviour.
	require.NoError(t, AdmitPayment(KindBonLivraison, StatusValidee, 100, 50))
}
