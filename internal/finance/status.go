package finance

import "fmt"

// DeriveInvoiceStatus maps an invoice's payment math onto its display
// status. Brouillon and Annulée pass through untouched; otherwise the
// status is a pure function of Paid vs TTC:
//
//	Payée               Remaining == 0 with at least one payment
//	PartiellementPayée  0 < Paid < TTC
//	Validée             no payments yet
func DeriveInvoiceStatus(stored DocumentStatus, t Totals) DocumentStatus {
	if stored == StatusBrouillon || stored == StatusAnnulee {
		return stored
	}
	switch {
	case t.Paid > 0 && t.Remaining == 0:
		return StatusPayee
	case t.Paid > 0:
		return StatusPartielle
	default:
		return StatusValidee
	}
}

// invoice transitions keyed by explicit (non-derived) status changes.
var invoiceTransitions = map[DocumentStatus][]DocumentStatus{
	StatusBrouillon: {StatusValidee, StatusAnnulee},
	StatusValidee:   {StatusAnnulee},
	StatusPartielle: {StatusAnnulee},
	StatusPayee:     {},
	StatusAnnulee:   {},
}

var quoteTransitions = map[DocumentStatus][]DocumentStatus{
	StatusBrouillon: {StatusEnvoye, StatusAnnulee},
	StatusEnvoye:    {StatusAccepte, StatusRefuse, StatusExpire, StatusAnnulee},
	StatusAccepte:   {},
	StatusRefuse:    {},
	StatusExpire:    {},
	StatusAnnulee:   {},
}

// CanTransition reports whether an explicit status change is allowed
// for the given document kind. Derived statuses (Payée,
// PartiellementPayée) are never the target of an explicit transition;
// they fall out of DeriveInvoiceStatus.
func CanTransition(kind DocumentKind, from, to DocumentStatus) bool {
	table := invoiceTransitions
	if kind == KindDevis {
		table = quoteTransitions
	}
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AdmitPayment enforces the payment admission rules before a payment is
// appended to the ledger: positive amount, no overpayment, no payments
// on cancelled documents or quotes. It returns a PaymentRejectedError
// carrying the precise reason, or nil when the payment may be recorded.
func AdmitPayment(kind DocumentKind, status DocumentStatus, remaining, amount float64) error {
	if !kind.CarriesPayments() {
		return &PaymentRejectedError{
			Reason: ReasonWrongDocumentKind,
			Detail: fmt.Sprintf("documents of kind %s do not accept payments", kind),
		}
	}
	if status == StatusAnnulee {
		return &PaymentRejectedError{
			Reason: ReasonDocumentCancelled,
			Detail: "document is cancelled",
		}
	}
	if amount <= 0 {
		return &PaymentRejectedError{
			Reason: ReasonNonPositiveAmount,
			Detail: fmt.Sprintf("amount %.2f must be positive", amount),
		}
	}
	if amount > remaining {
		return &PaymentRejectedError{
			Reason: ReasonExceedsBalance,
			Detail: fmt.Sprintf("amount %.2f exceeds remaining balance %.2f", amount, remaining),
		}
	}
	return nil
}
