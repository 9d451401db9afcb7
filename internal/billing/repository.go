package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/batipro-erp/batipro-erp/internal/finance"
	"github.com/batipro-erp/batipro-erp/internal/platform/db"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Document, error)
	List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithClient, int, error)
	Create(ctx context.Context, doc Document) (int64, error)
	InsertLine(ctx context.Context, line DocumentLine) (int64, error)
	DeleteLines(ctx context.Context, documentID int64) error
	UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status finance.DocumentStatus) error
	MarkConverted(ctx context.Context, quoteID, invoiceID int64) error
	GenerateNumber(ctx context.Context, kind finance.DocumentKind, date time.Time) (string, error)
	InsertPayment(ctx context.Context, p Payment) (int64, error)
	ListPayments(ctx context.Context, documentID int64) ([]Payment, error)
	ClientName(ctx context.Context, clientID int64) (string, error)
	FetchReceivablesSnapshot(ctx context.Context) (finance.Snapshot, error)
	ListExpirableQuotes(ctx context.Context, asOf time.Time) ([]Document, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const documentColumns = `id, number, kind, client_id, issue_date, due_date, status, discount_pct,
	montant_ht, montant_tva, remise_globale, montant_ttc,
	source_quote_id, converted_invoice_id, notes, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.Number, &d.Kind, &d.ClientID, &d.IssueDate, &d.DueDate, &d.Status, &d.DiscountPct,
		&d.MontantHT, &d.MontantTVA, &d.RemiseGlobale, &d.MontantTTC,
		&d.SourceQuoteID, &d.ConvertedInvoiceID, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Document, error) {
	doc, err := scanDocument(r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM documents WHERE id = $1`, documentColumns), id))
	if err != nil {
		return nil, err
	}

	lines, err := r.documentLines(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *repository) documentLines(ctx context.Context, documentID int64) ([]DocumentLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, product_id, description, quantity, unit_price_ht,
			discount_pct, discount_amount, tax_pct, tax_amount, line_total, line_order
		 FROM document_lines WHERE document_id = $1 ORDER BY line_order, id`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentLine
	for rows.Next() {
		var l DocumentLine
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPriceHT,
			&l.DiscountPct, &l.DiscountAmount, &l.TaxPct, &l.TaxAmount, &l.LineTotal, &l.LineOrder,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithClient, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("d.kind = $%d", argPos))
		args = append(args, *req.Kind)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("d.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("d.issue_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("d.issue_date < $%d", argPos))
		args = append(args, req.DateTo.AddDate(0, 0, 1))
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM documents d" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT d.id, d.number, d.kind, d.client_id, d.issue_date, d.due_date, d.status, d.discount_pct,
			d.montant_ht, d.montant_tva, d.remise_globale, d.montant_ttc,
			d.source_quote_id, d.converted_invoice_id, d.notes, d.created_at, d.updated_at,
			c.name AS client_name
		FROM documents d
		JOIN clients c ON c.id = d.client_id
		%s
		ORDER BY d.issue_date DESC, d.id DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []DocumentWithClient
	for rows.Next() {
		var d DocumentWithClient
		if err := rows.Scan(
			&d.ID, &d.Number, &d.Kind, &d.ClientID, &d.IssueDate, &d.DueDate, &d.Status, &d.DiscountPct,
			&d.MontantHT, &d.MontantTVA, &d.RemiseGlobale, &d.MontantTTC,
			&d.SourceQuoteID, &d.ConvertedInvoiceID, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&d.ClientName,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, doc Document) (int64, error) {
	query := `
		INSERT INTO documents (number, kind, client_id, issue_date, due_date, status, discount_pct,
			montant_ht, montant_tva, remise_globale, montant_ttc, source_quote_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		doc.Number, doc.Kind, doc.ClientID, doc.IssueDate, doc.DueDate, doc.Status, doc.DiscountPct,
		doc.MontantHT, doc.MontantTVA, doc.RemiseGlobale, doc.MontantTTC, doc.SourceQuoteID, doc.Notes,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("document number %s: %w", doc.Number, shared.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertLine(ctx context.Context, line DocumentLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_lines (document_id, product_id, description, quantity, unit_price_ht,
			discount_pct, discount_amount, tax_pct, tax_amount, line_total, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		line.DocumentID, line.ProductID, line.Description, line.Quantity, line.UnitPriceHT,
		line.DiscountPct, line.DiscountAmount, line.TaxPct, line.TaxAmount, line.LineTotal, line.LineOrder,
	).Scan(&id)
	return id, err
}

func (r *repository) DeleteLines(ctx context.Context, documentID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, documentID)
	return err
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	sets := "updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for col, val := range updates {
		sets += fmt.Sprintf(", %s = $%d", col, argPos)
		args = append(args, val)
		argPos++
	}
	args = append(args, id)

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d`, sets, argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status finance.DocumentStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) MarkConverted(ctx context.Context, quoteID, invoiceID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $1, converted_invoice_id = $2, updated_at = NOW()
		 WHERE id = $3 AND converted_invoice_id IS NULL`,
		finance.StatusAccepte, invoiceID, quoteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote %d already converted: %w", quoteID, shared.ErrInvalidStatus)
	}
	return nil
}

var numberPrefixes = map[finance.DocumentKind]string{
	finance.KindDevis:        "DEV",
	finance.KindFacture:      "FAC",
	finance.KindBonLivraison: "BL",
}

// GenerateNumber produces PREFIX-YYYY-NNNN, numbered per kind and year.
// The counter lives in document_sequences and advances atomically, so
// concurrent creates never observe the same value.
func (r *repository) GenerateNumber(ctx context.Context, kind finance.DocumentKind, date time.Time) (string, error) {
	year := date.Year()
	var seq int
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (kind, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		kind, year,
	).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", numberPrefixes[kind], year, seq), nil
}

func (r *repository) InsertPayment(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (document_id, amount, paid_at, method, reference, received_by, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id`,
		p.DocumentID, p.Amount, p.PaidAt, p.Method, p.Reference, p.ReceivedBy, p.Note,
	).Scan(&id)
	return id, err
}

func (r *repository) ListPayments(ctx context.Context, documentID int64) ([]Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, amount, paid_at, method, reference, received_by, note, created_at
		 FROM payments WHERE document_id = $1 ORDER BY paid_at, id`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Amount, &p.PaidAt, &p.Method, &p.Reference, &p.ReceivedBy, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) ClientName(ctx context.Context, clientID int64) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM clients WHERE id = $1`, clientID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return name, nil
}

// FetchReceivablesSnapshot loads all non-draft payment-carrying
// documents with their lines and payments, plus the client directory,
// in one consistent set. Date windowing happens in the aggregator so
// every caller shares the same filter semantics.
func (r *repository) FetchReceivablesSnapshot(ctx context.Context) (finance.Snapshot, error) {
	var snap finance.Snapshot

	rows, err := r.db.Query(ctx, `
		SELECT id, number, client_id, kind, status, issue_date, discount_pct
		FROM documents
		WHERE kind IN ($1, $2) AND status <> $3
		ORDER BY id`,
		finance.KindFacture, finance.KindBonLivraison, finance.StatusBrouillon,
	)
	if err != nil {
		return snap, err
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		var inv finance.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.Kind, &inv.Status, &inv.IssueDate, &inv.DiscountPct); err != nil {
			return snap, err
		}
		index[inv.ID] = len(snap.Invoices)
		snap.Invoices = append(snap.Invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	lineRows, err := r.db.Query(ctx, `
		SELECT l.document_id, l.quantity, l.unit_price_ht, l.discount_pct, l.tax_pct
		FROM document_lines l
		JOIN documents d ON d.id = l.document_id
		WHERE d.kind IN ($1, $2) AND d.status <> $3
		ORDER BY l.document_id, l.line_order, l.id`,
		finance.KindFacture, finance.KindBonLivraison, finance.StatusBrouillon,
	)
	if err != nil {
		return snap, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var docID int64
		var line finance.LineInput
		if err := lineRows.Scan(&docID, &line.Quantity, &line.UnitPriceHT, &line.DiscountPct, &line.TaxPct); err != nil {
			return snap, err
		}
		if i, ok := index[docID]; ok {
			snap.Invoices[i].Lines = append(snap.Invoices[i].Lines, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return snap, err
	}

	payRows, err := r.db.Query(ctx,
		`SELECT document_id, amount, paid_at FROM payments ORDER BY document_id, id`)
	if err != nil {
		return snap, err
	}
	defer payRows.Close()

	for payRows.Next() {
		var p finance.Payment
		if err := payRows.Scan(&p.InvoiceID, &p.Amount, &p.PaidAt); err != nil {
			return snap, err
		}
		snap.Payments = append(snap.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return snap, err
	}

	clientRows, err := r.db.Query(ctx, `SELECT id, name FROM clients ORDER BY id`)
	if err != nil {
		return snap, err
	}
	defer clientRows.Close()

	for clientRows.Next() {
		var c finance.Client
		if err := clientRows.Scan(&c.ID, &c.Name); err != nil {
			return snap, err
		}
		snap.Clients = append(snap.Clients, c)
	}
	return snap, clientRows.Err()
}

// ListExpirableQuotes returns sent quotes whose validity date has passed.
func (r *repository) ListExpirableQuotes(ctx context.Context, asOf time.Time) ([]Document, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM documents WHERE kind = $1 AND status = $2 AND due_date IS NOT NULL AND due_date < $3`, documentColumns),
		finance.KindDevis, finance.StatusEnvoye, asOf,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(
			&d.ID, &d.Number, &d.Kind, &d.ClientID, &d.IssueDate, &d.DueDate, &d.Status, &d.DiscountPct,
			&d.MontantHT, &d.MontantTVA, &d.RemiseGlobale, &d.MontantTTC,
			&d.SourceQuoteID, &d.ConvertedInvoiceID, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
