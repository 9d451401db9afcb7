package finance

import (
	"fmt"
	"sort"
	"time"
)

// DateWindow is an inclusive calendar-date filter on invoice issue
// dates. A nil bound means unbounded on that side; the zero DateWindow
// means all time. End is inclusive through the whole end day.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the window. The start bound
// compares from 00:00:00 of its day, the end bound through 23:59:59.999
// of its day.
func (w DateWindow) Contains(t time.Time) bool {
	if w.Start != nil {
		start := truncateToDay(*w.Start)
		if t.Before(start) {
			return false
		}
	}
	if w.End != nil {
		cutoff := truncateToDay(*w.End).Add(24 * time.Hour)
		if !t.Before(cutoff) {
			return false
		}
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WarningKind classifies snapshot inconsistencies the aggregator
// surfaces instead of crashing. Paginated multi-call fetches make
// partial snapshots a real possibility.
type WarningKind string

const (
	WarnOrphanPayment WarningKind = "ORPHAN_PAYMENT"
	WarnUnknownClient WarningKind = "UNKNOWN_CLIENT"
)

// SnapshotWarning annotates a receivables report with an inconsistency
// found in the input snapshot.
type SnapshotWarning struct {
	Kind   WarningKind
	Detail string
}

// ReceivableInvoice is one outstanding invoice inside a client group.
type ReceivableInvoice struct {
	InvoiceID int64
	Number    string
	IssueDate time.Time
	TTC       float64
	Paid      float64
	Remaining float64
}

// ClientReceivable is the per-client créance rollup.
type ClientReceivable struct {
	ClientID    int64
	ClientName  string
	TotalBilled float64
	TotalPaid   float64
	Balance     float64
	Invoices    []ReceivableInvoice
}

// ReceivablesReport is the aggregator output: outstanding clients only,
// with a grand total and any snapshot warnings.
type ReceivablesReport struct {
	Clients     []ClientReceivable
	TotalBilled float64
	TotalPaid   float64
	Balance     float64
	Warnings    []SnapshotWarning
}

// AggregateReceivables rolls an invoice/payment snapshot up into
// per-client outstanding balances:
//
//  1. invoices are filtered to the window (on issue date) and cancelled
//     documents are dropped;
//  2. totals are recomputed per invoice through ComputeTotals — stored
//     figures are never trusted;
//  3. clients whose balance is not positive are dropped (fully paid and
//     credit clients do not belong in a créance report);
//  4. invoices inside a group sort by issue date descending, groups
//     sort by client name then ID so reruns on the same snapshot are
//     byte-identical — PDF regeneration depends on that.
//
// Payments referencing invoices outside the snapshot and invoices
// referencing unknown clients are reported as warnings, not errors.
func AggregateReceivables(snap Snapshot, window DateWindow) (ReceivablesReport, error) {
	clientNames := make(map[int64]string, len(snap.Clients))
	for _, c := range snap.Clients {
		clientNames[c.ID] = c.Name
	}

	inScope := make(map[int64]bool, len(snap.Invoices))
	for _, inv := range snap.Invoices {
		inScope[inv.ID] = true
	}

	byInvoice := make(map[int64][]Payment)
	var report ReceivablesReport
	for _, p := range snap.Payments {
		if !inScope[p.InvoiceID] {
			report.Warnings = append(report.Warnings, SnapshotWarning{
				Kind:   WarnOrphanPayment,
				Detail: fmt.Sprintf("payment of %.2f references invoice %d absent from snapshot", p.Amount, p.InvoiceID),
			})
			continue
		}
		byInvoice[p.InvoiceID] = append(byInvoice[p.InvoiceID], p)
	}

	groups := make(map[int64]*ClientReceivable)
	for _, inv := range snap.Invoices {
		if !inv.Kind.CarriesPayments() {
			continue
		}
		if inv.Status == StatusAnnulee || inv.Status == StatusBrouillon {
			continue
		}
		if !window.Contains(inv.IssueDate) {
			continue
		}

		t, err := ComputeTotals(DocumentInput{
			Kind:        inv.Kind,
			DiscountPct: inv.DiscountPct,
			Lines:       inv.Lines,
		}, byInvoice[inv.ID])
		if err != nil {
			return ReceivablesReport{}, fmt.Errorf("invoice %s: %w", inv.Number, err)
		}
		if t.Remaining <= 0 {
			continue
		}

		g, ok := groups[inv.ClientID]
		if !ok {
			name, known := clientNames[inv.ClientID]
			if !known {
				report.Warnings = append(report.Warnings, SnapshotWarning{
					Kind:   WarnUnknownClient,
					Detail: fmt.Sprintf("invoice %s references client %d absent from snapshot", inv.Number, inv.ClientID),
				})
			}
			g = &ClientReceivable{ClientID: inv.ClientID, ClientName: name}
			groups[inv.ClientID] = g
		}
		g.TotalBilled += t.TTC
		g.TotalPaid += t.Paid
		g.Balance += t.Remaining
		g.Invoices = append(g.Invoices, ReceivableInvoice{
			InvoiceID: inv.ID,
			Number:    inv.Number,
			IssueDate: inv.IssueDate,
			TTC:       t.TTC,
			Paid:      t.Paid,
			Remaining: t.Remaining,
		})
	}

	for _, g := range groups {
		if g.Balance <= 0 {
			continue
		}
		sort.Slice(g.Invoices, func(i, j int) bool {
			if !g.Invoices[i].IssueDate.Equal(g.Invoices[j].IssueDate) {
				return g.Invoices[i].IssueDate.After(g.Invoices[j].IssueDate)
			}
			return g.Invoices[i].InvoiceID > g.Invoices[j].InvoiceID
		})
		report.Clients = append(report.Clients, *g)
		report.TotalBilled += g.TotalBilled
		report.TotalPaid += g.TotalPaid
		report.Balance += g.Balance
	}

	sort.Slice(report.Clients, func(i, j int) bool {
		if report.Clients[i].ClientName != report.Clients[j].ClientName {
			return report.Clients[i].ClientName < report.Clients[j].ClientName
		}
		return report.Clients[i].ClientID < report.Clients[j].ClientID
	})

	return report, nil
}
