package billing

import (
	"time"

	"github.com/batipro-erp/batipro-erp/internal/finance"
)

// PaymentMethod enumerates accepted settlement modes.
type PaymentMethod string

const (
	MethodEspeces  PaymentMethod = "ESPECES"
	MethodCheque   PaymentMethod = "CHEQUE"
	MethodVirement PaymentMethod = "VIREMENT"
	MethodCarte    PaymentMethod = "CARTE"
	MethodTraite   PaymentMethod = "TRAITE"
)

// Document represents a devis, facture or bon de livraison. The three
// kinds share the same totals shape; only payment-carrying kinds hold
// payment state. Stored monetary columns are the persisted outputs of
// the finance engine; consumers recompute from lines rather than trust
// them.
type Document struct {
	ID                 int64                  `json:"id" db:"id"`
	Number             string                 `json:"number" db:"number"`
	Kind               finance.DocumentKind   `json:"kind" db:"kind"`
	ClientID           int64                  `json:"client_id" db:"client_id"`
	IssueDate          time.Time              `json:"issue_date" db:"issue_date"`
	DueDate            *time.Time             `json:"due_date,omitempty" db:"due_date"`
	Status             finance.DocumentStatus `json:"status" db:"status"`
	DiscountPct        float64                `json:"discount_pct" db:"discount_pct"`
	MontantHT          float64                `json:"montant_ht" db:"montant_ht"`
	MontantTVA         float64                `json:"montant_tva" db:"montant_tva"`
	RemiseGlobale      float64                `json:"remise_globale" db:"remise_globale"`
	MontantTTC         float64                `json:"montant_ttc" db:"montant_ttc"`
	SourceQuoteID      *int64                 `json:"source_quote_id,omitempty" db:"source_quote_id"`
	ConvertedInvoiceID *int64                 `json:"converted_invoice_id,omitempty" db:"converted_invoice_id"`
	Notes              *string                `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at" db:"updated_at"`
	Lines              []DocumentLine         `json:"lines,omitempty" db:"-"`
}

type DocumentLine struct {
	ID             int64   `json:"id" db:"id"`
	DocumentID     int64   `json:"document_id" db:"document_id"`
	ProductID      int64   `json:"product_id" db:"product_id"`
	Description    *string `json:"description,omitempty" db:"description"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	UnitPriceHT    float64 `json:"unit_price_ht" db:"unit_price_ht"`
	DiscountPct    float64 `json:"discount_pct" db:"discount_pct"`
	DiscountAmount float64 `json:"discount_amount" db:"discount_amount"`
	TaxPct         float64 `json:"tax_pct" db:"tax_pct"`
	TaxAmount      float64 `json:"tax_amount" db:"tax_amount"`
	LineTotal      float64 `json:"line_total" db:"line_total"`
	LineOrder      int     `json:"line_order" db:"line_order"`
}

// Payment is one append-only ledger entry against an invoice.
// Corrections are modeled as new payments, never edits.
type Payment struct {
	ID         int64         `json:"id" db:"id"`
	DocumentID int64         `json:"document_id" db:"document_id"`
	Amount     float64       `json:"amount" db:"amount"`
	PaidAt     time.Time     `json:"paid_at" db:"paid_at"`
	Method     PaymentMethod `json:"method" db:"method"`
	Reference  string        `json:"reference" db:"reference"`
	ReceivedBy *string       `json:"received_by,omitempty" db:"received_by"`
	Note       *string       `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// DocumentWithClient joins the client name for listings.
type DocumentWithClient struct {
	Document
	ClientName string `json:"client_name" db:"client_name"`
}

// DocumentDetail is the full read model: document, payments and the
// freshly recomputed totals with the derived display status.
type DocumentDetail struct {
	Document
	ClientName    string                 `json:"client_name"`
	Payments      []Payment              `json:"payments,omitempty"`
	Totals        finance.Totals         `json:"totals"`
	DisplayStatus finance.DocumentStatus `json:"display_status"`
}
