package billing

import (
	"time"

	"github.com/batipro-erp/batipro-erp/internal/finance"
)

type CreateDocumentRequest struct {
	Kind        finance.DocumentKind `json:"kind" validate:"required,oneof=DEVIS FACTURE BON_LIVRAISON"`
	ClientID    int64                `json:"client_id" validate:"required,gt=0"`
	IssueDate   time.Time            `json:"issue_date" validate:"required"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	DiscountPct float64              `json:"discount_pct" validate:"gte=0"`
	Notes       *string              `json:"notes,omitempty"`
	Lines       []CreateLineRequest  `json:"lines" validate:"required,min=1,dive"`
}

// CreateLineRequest carries raw pricing inputs; derived amounts are
// always computed by the finance engine, never accepted from clients.
// Rates above 100 are accepted here and flagged unusual downstream.
type CreateLineRequest struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Description *string `json:"description,omitempty"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPriceHT float64 `json:"unit_price_ht" validate:"gte=0"`
	DiscountPct float64 `json:"discount_pct" validate:"gte=0"`
	TaxPct      float64 `json:"tax_pct" validate:"gte=0"`
	LineOrder   int     `json:"line_order" validate:"gte=0"`
}

type UpdateDocumentRequest struct {
	IssueDate   *time.Time           `json:"issue_date,omitempty"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	DiscountPct *float64             `json:"discount_pct,omitempty" validate:"omitempty,gte=0"`
	Notes       *string              `json:"notes,omitempty"`
	Lines       *[]CreateLineRequest `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

type RecordPaymentRequest struct {
	Amount     float64       `json:"amount"`
	PaidAt     time.Time     `json:"paid_at,omitempty"`
	Method     PaymentMethod `json:"method" validate:"required,oneof=ESPECES CHEQUE VIREMENT CARTE TRAITE"`
	Reference  *string       `json:"reference,omitempty" validate:"omitempty,max=100"`
	ReceivedBy *string       `json:"received_by,omitempty" validate:"omitempty,max=100"`
	Note       *string       `json:"note,omitempty"`
}

type ListDocumentsRequest struct {
	Kind     *finance.DocumentKind   `json:"kind,omitempty"`
	Status   *finance.DocumentStatus `json:"status,omitempty"`
	ClientID *int64                  `json:"client_id,omitempty"`
	DateFrom *time.Time              `json:"date_from,omitempty"`
	DateTo   *time.Time              `json:"date_to,omitempty"`
	Limit    int                     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int                     `json:"offset" validate:"gte=0"`
}
