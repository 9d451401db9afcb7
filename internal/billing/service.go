package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/finance"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

// StockPort is the slice of the catalog service billing needs:
// validating an invoice deducts finished stock.
type StockPort interface {
	AdjustStock(ctx context.Context, adjustments []catalog.StockAdjustment) error
}

type Service struct {
	repo  Repository
	stock StockPort
}

func NewService(repo Repository, stock StockPort) *Service {
	return &Service{repo: repo, stock: stock}
}

// priceLines runs every request line through the finance engine and
// returns the stored line models plus the document totals input.
func priceLines(reqs []CreateLineRequest) ([]DocumentLine, []finance.LineInput, error) {
	lines := make([]DocumentLine, 0, len(reqs))
	inputs := make([]finance.LineInput, 0, len(reqs))
	for i, lr := range reqs {
		in := finance.LineInput{
			Quantity:    lr.Quantity,
			UnitPriceHT: lr.UnitPriceHT,
			DiscountPct: lr.DiscountPct,
			TaxPct:      lr.TaxPct,
		}
		p, err := finance.PriceLine(in)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		line := DocumentLine{
			ProductID:      lr.ProductID,
			Description:    lr.Description,
			Quantity:       lr.Quantity,
			UnitPriceHT:    lr.UnitPriceHT,
			DiscountPct:    lr.DiscountPct,
			DiscountAmount: p.DiscountAmount,
			TaxPct:         lr.TaxPct,
			TaxAmount:      p.TaxAmount,
			LineTotal:      p.TotalTTC,
			LineOrder:      lr.LineOrder,
		}
		if line.LineOrder == 0 {
			line.LineOrder = i + 1
		}
		lines = append(lines, line)
		inputs = append(inputs, in)
	}
	return lines, inputs, nil
}

// Create opens a new draft document with engine-derived totals.
func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	if _, err := s.repo.ClientName(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("verify client: %w", err)
	}

	lines, inputs, err := priceLines(req.Lines)
	if err != nil {
		return nil, err
	}
	totals, err := finance.ComputeTotals(finance.DocumentInput{
		Kind:        req.Kind,
		DiscountPct: req.DiscountPct,
		Lines:       inputs,
	}, nil)
	if err != nil {
		return nil, err
	}

	number, err := s.repo.GenerateNumber(ctx, req.Kind, req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("generate document number: %w", err)
	}

	doc := Document{
		Number:        number,
		Kind:          req.Kind,
		ClientID:      req.ClientID,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Status:        finance.StatusBrouillon,
		DiscountPct:   req.DiscountPct,
		MontantHT:     totals.HT,
		MontantTVA:    totals.TVA,
		RemiseGlobale: totals.RemiseGlobale,
		MontantTTC:    totals.TTC,
		Notes:         req.Notes,
	}

	var docID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		docID = id
		for _, line := range lines {
			line.DocumentID = docID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, docID)
}

// Update modifies a draft document; validated or sent documents are
// immutable.
func (s *Service) Update(ctx context.Context, id int64, req UpdateDocumentRequest) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if existing.Status != finance.StatusBrouillon {
		return nil, fmt.Errorf("only draft documents can be edited: %w", shared.ErrInvalidStatus)
	}

	updates := make(map[string]interface{})
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	discountPct := existing.DiscountPct
	if req.DiscountPct != nil {
		discountPct = *req.DiscountPct
		updates["discount_pct"] = discountPct
	}

	var newLines []DocumentLine
	lineInputs := lineInputsOf(existing.Lines)
	if req.Lines != nil {
		newLines, lineInputs, err = priceLines(*req.Lines)
		if err != nil {
			return nil, err
		}
	}

	totals, err := finance.ComputeTotals(finance.DocumentInput{
		Kind:        existing.Kind,
		DiscountPct: discountPct,
		Lines:       lineInputs,
	}, nil)
	if err != nil {
		return nil, err
	}
	updates["montant_ht"] = totals.HT
	updates["montant_tva"] = totals.TVA
	updates["remise_globale"] = totals.RemiseGlobale
	updates["montant_ttc"] = totals.TTC

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateHeader(ctx, id, updates); err != nil {
			return err
		}
		if req.Lines != nil {
			if err := repo.DeleteLines(ctx, id); err != nil {
				return err
			}
			for _, line := range newLines {
				line.DocumentID = id
				if _, err := repo.InsertLine(ctx, line); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func lineInputsOf(lines []DocumentLine) []finance.LineInput {
	out := make([]finance.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, finance.LineInput{
			Quantity:    l.Quantity,
			UnitPriceHT: l.UnitPriceHT,
			DiscountPct: l.DiscountPct,
			TaxPct:      l.TaxPct,
		})
	}
	return out
}

func (s *Service) transition(ctx context.Context, id int64, to finance.DocumentStatus) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !finance.CanTransition(existing.Kind, existing.Status, to) {
		return nil, fmt.Errorf("%s %s: %s -> %s: %w",
			existing.Kind, existing.Number, existing.Status, to, shared.ErrInvalidStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// ValidateInvoice moves an invoice from draft to validated, the point
// at which it becomes payable, and deducts the finished stock it sells.
func (s *Service) ValidateInvoice(ctx context.Context, id int64) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !existing.Kind.CarriesPayments() {
		return nil, fmt.Errorf("only invoices can be validated: %w", shared.ErrInvalidStatus)
	}
	if !finance.CanTransition(existing.Kind, existing.Status, finance.StatusValidee) {
		return nil, fmt.Errorf("%s: %s -> %s: %w",
			existing.Number, existing.Status, finance.StatusValidee, shared.ErrInvalidStatus)
	}

	adjustments := make([]catalog.StockAdjustment, 0, len(existing.Lines))
	for _, line := range existing.Lines {
		adjustments = append(adjustments, catalog.StockAdjustment{
			ProductID: line.ProductID,
			Delta:     -line.Quantity,
			Reason:    fmt.Sprintf("facture %s", existing.Number),
		})
	}
	if err := s.stock.AdjustStock(ctx, adjustments); err != nil {
		return nil, fmt.Errorf("deduct stock: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, finance.StatusValidee); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Cancel voids a document from any non-terminal state. Its lines stay
// stored but the document no longer counts anywhere.
func (s *Service) Cancel(ctx context.Context, id int64) (*Document, error) {
	return s.transition(ctx, id, finance.StatusAnnulee)
}

// SendQuote marks a draft quote as sent to the client.
func (s *Service) SendQuote(ctx context.Context, id int64) (*Document, error) {
	return s.transition(ctx, id, finance.StatusEnvoye)
}

func (s *Service) RefuseQuote(ctx context.Context, id int64) (*Document, error) {
	return s.transition(ctx, id, finance.StatusRefuse)
}

func (s *Service) ExpireQuote(ctx context.Context, id int64) (*Document, error) {
	return s.transition(ctx, id, finance.StatusExpire)
}

// AcceptQuote marks a sent quote accepted and converts it into a new
// draft invoice carrying every line and the global discount verbatim.
// A quote converts at most once.
func (s *Service) AcceptQuote(ctx context.Context, id int64) (*Document, error) {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if quote.Kind != finance.KindDevis {
		return nil, fmt.Errorf("document %s is not a quote: %w", quote.Number, shared.ErrInvalidStatus)
	}
	if !finance.CanTransition(quote.Kind, quote.Status, finance.StatusAccepte) {
		return nil, fmt.Errorf("quote %s: %s -> %s: %w",
			quote.Number, quote.Status, finance.StatusAccepte, shared.ErrInvalidStatus)
	}
	if quote.ConvertedInvoiceID != nil {
		return nil, fmt.Errorf("quote %s already converted: %w", quote.Number, shared.ErrInvalidStatus)
	}

	number, err := s.repo.GenerateNumber(ctx, finance.KindFacture, quote.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	var invoiceID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		invoice := Document{
			Number:        number,
			Kind:          finance.KindFacture,
			ClientID:      quote.ClientID,
			IssueDate:     quote.IssueDate,
			DueDate:       quote.DueDate,
			Status:        finance.StatusBrouillon,
			DiscountPct:   quote.DiscountPct,
			MontantHT:     quote.MontantHT,
			MontantTVA:    quote.MontantTVA,
			RemiseGlobale: quote.RemiseGlobale,
			MontantTTC:    quote.MontantTTC,
			SourceQuoteID: &quote.ID,
			Notes:         quote.Notes,
		}
		id, err := repo.Create(ctx, invoice)
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		invoiceID = id

		for _, line := range quote.Lines {
			line.ID = 0
			line.DocumentID = invoiceID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("copy line: %w", err)
			}
		}

		return repo.MarkConverted(ctx, quote.ID, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, invoiceID)
}

// RecordPayment appends a payment to an invoice after running the
// admission rules against a freshly recomputed balance.
func (s *Service) RecordPayment(ctx context.Context, documentID int64, req RecordPaymentRequest) (*Payment, *DocumentDetail, error) {
	doc, err := s.repo.Get(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Status == finance.StatusBrouillon {
		return nil, nil, fmt.Errorf("invoice %s must be validated before payment: %w", doc.Number, shared.ErrInvalidStatus)
	}

	payments, err := s.repo.ListPayments(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("list payments: %w", err)
	}
	totals, err := s.totalsOf(doc, payments)
	if err != nil {
		return nil, nil, err
	}

	if err := finance.AdmitPayment(doc.Kind, doc.Status, totals.Remaining, req.Amount); err != nil {
		return nil, nil, err
	}

	reference := uuid.NewString()
	if req.Reference != nil && *req.Reference != "" {
		reference = *req.Reference
	}
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := Payment{
		DocumentID: documentID,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Method:     req.Method,
		Reference:  reference,
		ReceivedBy: req.ReceivedBy,
		Note:       req.Note,
	}
	id, err := s.repo.InsertPayment(ctx, payment)
	if err != nil {
		return nil, nil, fmt.Errorf("insert payment: %w", err)
	}
	payment.ID = id

	detail, err := s.Detail(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	return &payment, detail, nil
}

func (s *Service) totalsOf(doc *Document, payments []Payment) (finance.Totals, error) {
	fp := make([]finance.Payment, 0, len(payments))
	for _, p := range payments {
		fp = append(fp, finance.Payment{InvoiceID: p.DocumentID, Amount: p.Amount, PaidAt: p.PaidAt})
	}
	return finance.ComputeTotals(finance.DocumentInput{
		Kind:        doc.Kind,
		DiscountPct: doc.DiscountPct,
		Lines:       lineInputsOf(doc.Lines),
	}, fp)
}

// Detail assembles the full read model every consumer shares: the
// document, its payments, recomputed totals and the derived status.
func (s *Service) Detail(ctx context.Context, id int64) (*DocumentDetail, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	clientName, err := s.repo.ClientName(ctx, doc.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}

	var payments []Payment
	if doc.Kind.CarriesPayments() {
		payments, err = s.repo.ListPayments(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
	}

	totals, err := s.totalsOf(doc, payments)
	if err != nil {
		return nil, err
	}

	display := doc.Status
	if doc.Kind.CarriesPayments() {
		display = finance.DeriveInvoiceStatus(doc.Status, totals)
	}

	return &DocumentDetail{
		Document:      *doc,
		ClientName:    clientName,
		Payments:      payments,
		Totals:        totals,
		DisplayStatus: display,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithClient, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) ListPayments(ctx context.Context, documentID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, documentID)
}

// Receivables aggregates per-client outstanding balances over a fresh
// snapshot.
func (s *Service) Receivables(ctx context.Context, window finance.DateWindow) (*finance.ReceivablesReport, error) {
	snap, err := s.repo.FetchReceivablesSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	report, err := finance.AggregateReceivables(snap, window)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ExpireOverdueQuotes sweeps sent quotes past their validity date.
// Called by the background worker.
func (s *Service) ExpireOverdueQuotes(ctx context.Context, asOf time.Time) (int, error) {
	quotes, err := s.repo.ListExpirableQuotes(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("list expirable quotes: %w", err)
	}
	expired := 0
	for _, q := range quotes {
		if err := s.repo.UpdateStatus(ctx, q.ID, finance.StatusExpire); err != nil {
			return expired, fmt.Errorf("expire quote %s: %w", q.Number, err)
		}
		expired++
	}
	return expired, nil
}
