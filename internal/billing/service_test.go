package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/finance"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

type fakeRepo struct {
	docs     map[int64]*Document
	payments map[int64][]Payment
	clients  map[int64]string
	nextDoc  int64
	nextLine int64
	nextPay  int64
	seq      map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:     make(map[int64]*Document),
		payments: make(map[int64][]Payment),
		clients:  map[int64]string{1: "SARL Batimat", 2: "ETS Bounoua"},
		seq:      make(map[string]int),
	}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *doc
	copied.Lines = append([]DocumentLine(nil), doc.Lines...)
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, req ListDocumentsRequest) ([]DocumentWithClient, int, error) {
	var out []DocumentWithClient
	for _, doc := range f.docs {
		if req.Kind != nil && doc.Kind != *req.Kind {
			continue
		}
		if req.Status != nil && doc.Status != *req.Status {
			continue
		}
		out = append(out, DocumentWithClient{Document: *doc, ClientName: f.clients[doc.ClientID]})
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(_ context.Context, doc Document) (int64, error) {
	f.nextDoc++
	doc.ID = f.nextDoc
	f.docs[doc.ID] = &doc
	return doc.ID, nil
}

func (f *fakeRepo) InsertLine(_ context.Context, line DocumentLine) (int64, error) {
	f.nextLine++
	line.ID = f.nextLine
	doc, ok := f.docs[line.DocumentID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	doc.Lines = append(doc.Lines, line)
	return line.ID, nil
}

func (f *fakeRepo) DeleteLines(_ context.Context, documentID int64) error {
	doc, ok := f.docs[documentID]
	if !ok {
		return shared.ErrNotFound
	}
	doc.Lines = nil
	return nil
}

func (f *fakeRepo) UpdateHeader(_ context.Context, id int64, updates map[string]interface{}) error {
	doc, ok := f.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "issue_date":
			doc.IssueDate = v.(time.Time)
		case "due_date":
			d := v.(time.Time)
			doc.DueDate = &d
		case "notes":
			n := v.(string)
			doc.Notes = &n
		case "discount_pct":
			doc.DiscountPct = v.(float64)
		case "montant_ht":
			doc.MontantHT = v.(float64)
		case "montant_tva":
			doc.MontantTVA = v.(float64)
		case "remise_globale":
			doc.RemiseGlobale = v.(float64)
		case "montant_ttc":
			doc.MontantTTC = v.(float64)
		}
	}
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status finance.DocumentStatus) error {
	doc, ok := f.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	doc.Status = status
	return nil
}

func (f *fakeRepo) MarkConverted(_ context.Context, quoteID, invoiceID int64) error {
	quote, ok := f.docs[quoteID]
	if !ok {
		return shared.ErrNotFound
	}
	if quote.ConvertedInvoiceID != nil {
		return shared.ErrInvalidStatus
	}
	quote.Status = finance.StatusAccepte
	quote.ConvertedInvoiceID = &invoiceID
	return nil
}

func (f *fakeRepo) GenerateNumber(_ context.Context, kind finance.DocumentKind, date time.Time) (string, error) {
	prefix := map[finance.DocumentKind]string{
		finance.KindDevis:        "DEV",
		finance.KindFacture:      "FAC",
		finance.KindBonLivraison: "BL",
	}[kind]
	key := fmt.Sprintf("%s-%d", prefix, date.Year())
	f.seq[key]++
	return fmt.Sprintf("%s-%d-%04d", prefix, date.Year(), f.seq[key]), nil
}

func (f *fakeRepo) InsertPayment(_ context.Context, p Payment) (int64, error) {
	f.nextPay++
	p.ID = f.nextPay
	f.payments[p.DocumentID] = append(f.payments[p.DocumentID], p)
	return p.ID, nil
}

func (f *fakeRepo) ListPayments(_ context.Context, documentID int64) ([]Payment, error) {
	return append([]Payment(nil), f.payments[documentID]...), nil
}

func (f *fakeRepo) ClientName(_ context.Context, clientID int64) (string, error) {
	name, ok := f.clients[clientID]
	if !ok {
		return "", shared.ErrNotFound
	}
	return name, nil
}

func (f *fakeRepo) FetchReceivablesSnapshot(_ context.Context) (finance.Snapshot, error) {
	var snap finance.Snapshot
	for _, doc := range f.docs {
		if !doc.Kind.CarriesPayments() || doc.Status == finance.StatusBrouillon {
			continue
		}
		inv := finance.Invoice{
			ID:          doc.ID,
			Number:      doc.Number,
			ClientID:    doc.ClientID,
			Kind:        doc.Kind,
			Status:      doc.Status,
			IssueDate:   doc.IssueDate,
			DiscountPct: doc.DiscountPct,
		}
		for _, line := range doc.Lines {
			inv.Lines = append(inv.Lines, finance.LineInput{
				Quantity:    line.Quantity,
				UnitPriceHT: line.UnitPriceHT,
				DiscountPct: line.DiscountPct,
				TaxPct:      line.TaxPct,
			})
		}
		snap.Invoices = append(snap.Invoices, inv)
	}
	for docID, pays := range f.payments {
		for _, p := range pays {
			snap.Payments = append(snap.Payments, finance.Payment{
				InvoiceID: docID, Amount: p.Amount, PaidAt: p.PaidAt,
			})
		}
	}
	for id, name := range f.clients {
		snap.Clients = append(snap.Clients, finance.Client{ID: id, Name: name})
	}
	return snap, nil
}

func (f *fakeRepo) ListExpirableQuotes(_ context.Context, asOf time.Time) ([]Document, error) {
	var out []Document
	for _, doc := range f.docs {
		if doc.Kind != finance.KindDevis || doc.Status != finance.StatusEnvoye {
			continue
		}
		if doc.DueDate != nil && doc.DueDate.Before(asOf) {
			out = append(out, *doc)
		}
	}
	return out, nil
}

type fakeStock struct {
	adjustments []catalog.StockAdjustment
	err         error
}

func (f *fakeStock) AdjustStock(_ context.Context, adj []catalog.StockAdjustment) error {
	if f.err != nil {
		return f.err
	}
	f.adjustments = append(f.adjustments, adj...)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeStock) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	return NewService(repo, stock), repo, stock
}

func ciment25kg(qty float64) CreateLineRequest {
	return CreateLineRequest{
		ProductID:   10,
		Quantity:    qty,
		UnitPriceHT: 1000,
		DiscountPct: 10,
		TaxPct:      19,
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc, _, _ := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines:     []CreateLineRequest{ciment25kg(2)},
	})
	require.NoError(t, err)

	require.Equal(t, finance.StatusBrouillon, doc.Status)
	require.Equal(t, "FAC-2026-0001", doc.Number)
	require.InDelta(t, 1800.0, doc.MontantHT, 1e-9)
	require.InDelta(t, 342.0, doc.MontantTVA, 1e-9)
	require.InDelta(t, 2142.0, doc.MontantTTC, 1e-9)
	require.Len(t, doc.Lines, 1)
	require.InDelta(t, 200.0, doc.Lines[0].DiscountAmount, 1e-9)
	require.InDelta(t, 2142.0, doc.Lines[0].LineTotal, 1e-9)
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  99,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	svc, _, _ := newTestService()

	line := ciment25kg(1)
	line.Quantity = -3
	_, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{line},
	})
	require.ErrorIs(t, err, finance.ErrValidation)
}

func TestUpdateOnlyTouchesDrafts(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(2)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, doc.ID, finance.StatusValidee))

	_, err = svc.Update(ctx, doc.ID, UpdateDocumentRequest{})
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestUpdateRepricesReplacedLines(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(2)},
	})
	require.NoError(t, err)

	newLines := []CreateLineRequest{ciment25kg(4)}
	pct := 5.0
	updated, err := svc.Update(ctx, doc.ID, UpdateDocumentRequest{
		DiscountPct: &pct,
		Lines:       &newLines,
	})
	require.NoError(t, err)
	require.InDelta(t, 3600.0, updated.MontantHT, 1e-9)
	require.InDelta(t, 4284.0*0.95, updated.MontantTTC, 1e-9)
	require.Len(t, updated.Lines, 1)
	require.InDelta(t, 4.0, updated.Lines[0].Quantity, 1e-9)
}

func TestValidateInvoiceDeductsStock(t *testing.T) {
	svc, _, stock := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(5)},
	})
	require.NoError(t, err)

	validated, err := svc.ValidateInvoice(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, finance.StatusValidee, validated.Status)

	require.Len(t, stock.adjustments, 1)
	require.Equal(t, int64(10), stock.adjustments[0].ProductID)
	require.InDelta(t, -5.0, stock.adjustments[0].Delta, 1e-9)
}

func TestValidateInvoiceStopsOnStockFailure(t *testing.T) {
	svc, repo, stock := newTestService()
	ctx := context.Background()
	stock.err = shared.ErrInsufficientStock

	doc, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(5)},
	})
	require.NoError(t, err)

	_, err = svc.ValidateInvoice(ctx, doc.ID)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	stored, err := repo.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, finance.StatusBrouillon, stored.Status)
}

func TestValidateRejectsQuotes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindDevis,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)

	_, err = svc.ValidateInvoice(ctx, quote.ID)
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestQuoteConversionPreservesLinesAndTotals(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	lines := []CreateLineRequest{
		ciment25kg(2),
		{ProductID: 11, Quantity: 10, UnitPriceHT: 450, TaxPct: 9},
	}
	quote, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:        finance.KindDevis,
		ClientID:    2,
		IssueDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DiscountPct: 5,
		Lines:       lines,
	})
	require.NoError(t, err)

	_, err = svc.SendQuote(ctx, quote.ID)
	require.NoError(t, err)

	invoice, err := svc.AcceptQuote(ctx, quote.ID)
	require.NoError(t, err)

	require.Equal(t, finance.KindFacture, invoice.Kind)
	require.Equal(t, finance.StatusBrouillon, invoice.Status)
	require.Equal(t, quote.ClientID, invoice.ClientID)
	require.Equal(t, quote.MontantHT, invoice.MontantHT)
	require.Equal(t, quote.MontantTVA, invoice.MontantTVA)
	require.Equal(t, quote.RemiseGlobale, invoice.RemiseGlobale)
	require.Equal(t, quote.MontantTTC, invoice.MontantTTC)
	require.NotNil(t, invoice.SourceQuoteID)
	require.Equal(t, quote.ID, *invoice.SourceQuoteID)

	require.Len(t, invoice.Lines, len(lines))
	for i, line := range invoice.Lines {
		require.Equal(t, invoice.ID, line.DocumentID)
		require.Equal(t, lines[i].ProductID, line.ProductID)
		require.InDelta(t, lines[i].Quantity, line.Quantity, 1e-9)
		require.InDelta(t, lines[i].UnitPriceHT, line.UnitPriceHT, 1e-9)
	}

	converted, err := svc.Get(ctx, quote.ID)
	require.NoError(t, err)
	require.Equal(t, finance.StatusAccepte, converted.Status)
	require.NotNil(t, converted.ConvertedInvoiceID)
	require.Equal(t, invoice.ID, *converted.ConvertedInvoiceID)
}

func TestQuoteConvertsAtMostOnce(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindDevis,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)
	_, err = svc.SendQuote(ctx, quote.ID)
	require.NoError(t, err)
	_, err = svc.AcceptQuote(ctx, quote.ID)
	require.NoError(t, err)

	// Force the status back to ENVOYE: the conversion marker alone must
	// still block a second conversion.
	require.NoError(t, repo.UpdateStatus(ctx, quote.ID, finance.StatusEnvoye))
	_, err = svc.AcceptQuote(ctx, quote.ID)
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestQuoteLifecycleRestrictedToSent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindDevis,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)

	// Draft quotes cannot be accepted or refused before being sent.
	_, err = svc.AcceptQuote(ctx, quote.ID)
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
	_, err = svc.RefuseQuote(ctx, quote.ID)
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func validatedInvoice(t *testing.T, svc *Service, qty float64) *Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Lines:     []CreateLineRequest{ciment25kg(qty)},
	})
	require.NoError(t, err)
	validated, err := svc.ValidateInvoice(context.Background(), doc.ID)
	require.NoError(t, err)
	return validated
}

func TestRecordPaymentHappyPath(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	invoice := validatedInvoice(t, svc, 2) // TTC 2142

	payment, detail, err := svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{
		Amount: 1000,
		PaidAt: time.Now(),
		Method: MethodEspeces,
	})
	require.NoError(t, err)
	require.NotEmpty(t, payment.Reference)
	require.InDelta(t, 1000.0, detail.Totals.Paid, 1e-9)
	require.InDelta(t, 1142.0, detail.Totals.Remaining, 1e-9)
	require.Equal(t, finance.StatusPartielle, detail.DisplayStatus)
}

func TestRecordPaymentDefaultsPaidAt(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	invoice := validatedInvoice(t, svc, 2)

	payment, _, err := svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{
		Amount: 500,
		Method: MethodCheque,
	})
	require.NoError(t, err)
	require.False(t, payment.PaidAt.IsZero())
}

func TestRecordPaymentSettlesExactly(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	invoice := validatedInvoice(t, svc, 2)

	detail, err := svc.Detail(ctx, invoice.ID)
	require.NoError(t, err)

	_, after, err := svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{
		Amount: detail.Totals.Remaining,
		PaidAt: time.Now(),
		Method: MethodVirement,
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, after.Totals.Remaining)
	require.Equal(t, finance.StatusPayee, after.DisplayStatus)
}

func TestRecordPaymentRejections(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	invoice := validatedInvoice(t, svc, 2)

	_, _, err := svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{
		Amount: 0, PaidAt: time.Now(), Method: MethodEspeces,
	})
	require.Equal(t, finance.ReasonNonPositiveAmount, finance.RejectionReasonOf(err))

	_, _, err = svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{
		Amount: 5000, PaidAt: time.Now(), Method: MethodEspeces,
	})
	require.Equal(t, finance.ReasonExceedsBalance, finance.RejectionReasonOf(err))

	quote, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindDevis,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)
	_, err = svc.SendQuote(ctx, quote.ID)
	require.NoError(t, err)
	_, _, err = svc.RecordPayment(ctx, quote.ID, RecordPaymentRequest{
		Amount: 100, PaidAt: time.Now(), Method: MethodEspeces,
	})
	require.Equal(t, finance.ReasonWrongDocumentKind, finance.RejectionReasonOf(err))

	cancelled, err := svc.Cancel(ctx, invoice.ID)
	require.NoError(t, err)
	_, _, err = svc.RecordPayment(ctx, cancelled.ID, RecordPaymentRequest{
		Amount: 100, PaidAt: time.Now(), Method: MethodEspeces,
	})
	require.Equal(t, finance.ReasonDocumentCancelled, finance.RejectionReasonOf(err))
}

func TestRecordPaymentRejectsDrafts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindFacture,
		ClientID:  1,
		IssueDate: time.Now(),
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)

	_, _, err = svc.RecordPayment(ctx, draft.ID, RecordPaymentRequest{
		Amount: 100, PaidAt: time.Now(), Method: MethodEspeces,
	})
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestReceivablesRollsUpOutstandingClients(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first := validatedInvoice(t, svc, 2) // client 1, TTC 2142
	_, _, err := svc.RecordPayment(ctx, first.ID, RecordPaymentRequest{
		Amount: 1000, PaidAt: time.Now(), Method: MethodCheque,
	})
	require.NoError(t, err)

	// Fully paid invoices drop out of the report.
	second := validatedInvoice(t, svc, 1)
	detail, err := svc.Detail(ctx, second.ID)
	require.NoError(t, err)
	_, _, err = svc.RecordPayment(ctx, second.ID, RecordPaymentRequest{
		Amount: detail.Totals.Remaining, PaidAt: time.Now(), Method: MethodVirement,
	})
	require.NoError(t, err)

	report, err := svc.Receivables(ctx, finance.DateWindow{})
	require.NoError(t, err)

	require.Len(t, report.Clients, 1)
	group := report.Clients[0]
	require.Equal(t, int64(1), group.ClientID)
	require.Equal(t, "SARL Batimat", group.ClientName)
	require.Len(t, group.Invoices, 1)
	require.Equal(t, first.ID, group.Invoices[0].InvoiceID)
	require.InDelta(t, 1142.0, group.Balance, 1e-9)
	require.InDelta(t, 1142.0, report.Balance, 1e-9)
	require.Empty(t, report.Warnings)
}

func TestExpireOverdueQuotes(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	overdue := asOf.AddDate(0, 0, -10)
	fresh := asOf.AddDate(0, 0, 10)

	stale, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindDevis,
		ClientID:  1,
		IssueDate: overdue.AddDate(0, -1, 0),
		DueDate:   &overdue,
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)
	_, err = svc.SendQuote(ctx, stale.ID)
	require.NoError(t, err)

	live, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:      finance.KindDevis,
		ClientID:  1,
		IssueDate: asOf,
		DueDate:   &fresh,
		Lines:     []CreateLineRequest{ciment25kg(1)},
	})
	require.NoError(t, err)
	_, err = svc.SendQuote(ctx, live.ID)
	require.NoError(t, err)

	expired, err := svc.ExpireOverdueQuotes(ctx, asOf)
	require.NoError(t, err)
	require.Equal(t, 1, expired)

	staleNow, err := repo.Get(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, finance.StatusExpire, staleNow.Status)

	liveNow, err := repo.Get(ctx, live.ID)
	require.NoError(t, err)
	require.Equal(t, finance.StatusEnvoye, liveNow.Status)
}

func TestGenerateNumberSequencesPerKindAndYear(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	mk := func(kind finance.DocumentKind) string {
		doc, err := svc.Create(ctx, CreateDocumentRequest{
			Kind: kind, ClientID: 1, IssueDate: date,
			Lines: []CreateLineRequest{ciment25kg(1)},
		})
		require.NoError(t, err)
		return doc.Number
	}

	require.Equal(t, "FAC-2026-0001", mk(finance.KindFacture))
	require.Equal(t, "FAC-2026-0002", mk(finance.KindFacture))
	require.Equal(t, "DEV-2026-0001", mk(finance.KindDevis))
	require.Equal(t, "BL-2026-0001", mk(finance.KindBonLivraison))
}
