// Package finance is the single source of truth for monetary derivation:
// line pricing, document totals, payment admission and receivables
// aggregation. It is pure computation over in-memory snapshots — no I/O,
// no shared state — so every consumer (handlers, PDF builders, jobs)
// derives identical figures from the same inputs.
package finance

import "time"

// DocumentKind discriminates the billing document families. Quotes and
// invoices share the same totals shape; a delivery note is an invoice
// variant with identical money math.
type DocumentKind string

const (
	KindDevis        DocumentKind = "DEVIS"
	KindFacture      DocumentKind = "FACTURE"
	KindBonLivraison DocumentKind = "BON_LIVRAISON"
)

// CarriesPayments reports whether documents of this kind accept payments.
func (k DocumentKind) CarriesPayments() bool {
	return k == KindFacture || k == KindBonLivraison
}

// DocumentStatus enumerates document statuses. Payée and
// PartiellementPayée are never stored independently: they are derived
// from the payment math (see DeriveInvoiceStatus). Only Brouillon,
// Annulée and the quote-only states are genuinely independent state.
type DocumentStatus string

const (
	StatusBrouillon DocumentStatus = "BROUILLON"
	StatusValidee   DocumentStatus = "VALIDEE"
	StatusPartielle DocumentStatus = "PARTIELLEMENT_PAYEE"
	StatusPayee     DocumentStatus = "PAYEE"
	StatusAnnulee   DocumentStatus = "ANNULEE"

	// Quote-only statuses.
	StatusEnvoye  DocumentStatus = "ENVOYE"
	StatusAccepte DocumentStatus = "ACCEPTE"
	StatusRefuse  DocumentStatus = "REFUSE"
	StatusExpire  DocumentStatus = "EXPIRE"
)

// Terminal reports whether no further transition is allowed from s.
func (s DocumentStatus) Terminal() bool {
	switch s {
	case StatusAnnulee, StatusRefuse, StatusExpire:
		return true
	}
	return false
}

// LineInput is the raw pricing input of a single document line.
type LineInput struct {
	Quantity    float64
	UnitPriceHT float64
	DiscountPct float64
	TaxPct      float64
}

// LinePricing is the derived money breakdown of a single line.
type LinePricing struct {
	GrossHT        float64
	DiscountAmount float64
	NetHT          float64
	TaxAmount      float64
	TotalTTC       float64
	// Unusual flags rates above 100%. Such lines are computed normally
	// (a 100% discount is a free line) but callers may want to warn.
	Unusual bool
}

// Totals is the derived money breakdown of a whole document. Paid and
// Remaining are only meaningful for payment-carrying kinds and stay
// zero for quotes.
type Totals struct {
	HT             float64
	TVA            float64
	PreDiscountTTC float64
	RemiseGlobale  float64
	TTC            float64
	Paid           float64
	Remaining      float64
}

// DocumentInput is the snapshot a totals computation runs over.
type DocumentInput struct {
	Kind        DocumentKind
	DiscountPct float64
	Lines       []LineInput
}

// Invoice is a receivables snapshot row. Totals are recomputed from the
// lines, never trusted from storage.
type Invoice struct {
	ID          int64
	Number      string
	ClientID    int64
	Kind        DocumentKind
	Status      DocumentStatus
	IssueDate   time.Time
	DiscountPct float64
	Lines       []LineInput
}

// Payment is a receivables snapshot row. Payments belong to their
// invoice regardless of when they were made; they are never
// date-filtered independently.
type Payment struct {
	InvoiceID int64
	Amount    float64
	PaidAt    time.Time
}

// Client is the directory entry receivable groups resolve names from.
type Client struct {
	ID   int64
	Name string
}

// Snapshot bundles the consistent data set an aggregation runs over.
type Snapshot struct {
	Invoices []Invoice
	Payments []Payment
	Clients  []Client
}
