package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/batipro-erp/batipro-erp/internal/billing"
	"github.com/batipro-erp/batipro-erp/internal/finance"
)

var docTitles = map[finance.DocumentKind]string{
	finance.KindDevis:        "Devis",
	finance.KindFacture:      "Facture",
	finance.KindBonLivraison: "Bon de livraison",
}

const baseStyle = `
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 40px; }
h1 { font-size: 20px; margin-bottom: 2px; }
h2 { font-size: 14px; color: #555; font-weight: normal; margin-top: 0; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th { text-align: left; border-bottom: 2px solid #333; padding: 6px 8px; font-size: 11px; text-transform: uppercase; }
td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
td.num, th.num { text-align: right; }
tfoot td { border: none; font-weight: bold; }
.meta { margin-top: 12px; color: #444; }
.totals { width: 40%; margin-left: 60%; }
.warning { color: #a33; font-size: 11px; margin-top: 12px; }
`

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>{{.Title}} {{.Number}}</title><style>` + baseStyle + `</style></head>
<body>
<h1>{{.Title}} {{.Number}}</h1>
<h2>BatiPro — matériaux de construction</h2>
<div class="meta">
  <div>Client : <strong>{{.ClientName}}</strong></div>
  <div>Date d'émission : {{.IssueDate}}</div>
  {{if .DueDate}}<div>Échéance : {{.DueDate}}</div>{{end}}
  <div>Statut : {{.Status}}</div>
</div>
<table>
  <thead>
    <tr><th>Désignation</th><th class="num">Qté</th><th class="num">PU HT</th><th class="num">Remise</th><th class="num">TVA</th><th class="num">Total TTC</th></tr>
  </thead>
  <tbody>
    {{range .Lines}}
    <tr>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice}}</td>
      <td class="num">{{.Discount}}</td>
      <td class="num">{{.Tax}}</td>
      <td class="num">{{.Total}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
<table class="totals">
  <tr><td>Total HT</td><td class="num">{{.TotalHT}}</td></tr>
  <tr><td>Total TVA</td><td class="num">{{.TotalTVA}}</td></tr>
  {{if .RemiseGlobale}}<tr><td>Remise globale</td><td class="num">&minus; {{.RemiseGlobale}}</td></tr>{{end}}
  <tr><td><strong>Total TTC</strong></td><td class="num"><strong>{{.TotalTTC}}</strong></td></tr>
  {{if .ShowBalance}}
  <tr><td>Payé</td><td class="num">{{.Paid}}</td></tr>
  <tr><td>Reste à payer</td><td class="num">{{.Remaining}}</td></tr>
  {{end}}
</table>
</body>
</html>`))

type documentView struct {
	Title         string
	Number        string
	ClientName    string
	IssueDate     string
	DueDate       string
	Status        string
	Lines         []documentLineView
	TotalHT       string
	TotalTVA      string
	RemiseGlobale string
	TotalTTC      string
	ShowBalance   bool
	Paid          string
	Remaining     string
}

type documentLineView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Discount    string
	Tax         string
	Total       string
}

// BuildDocumentHTML renders a devis, facture or bon de livraison as a
// printable page. Totals come from the detail read model, so the PDF
// always shows the same figures as the API.
func BuildDocumentHTML(detail billing.DocumentDetail) (string, error) {
	view := documentView{
		Title:       docTitles[detail.Kind],
		Number:      detail.Number,
		ClientName:  detail.ClientName,
		IssueDate:   formatDate(detail.IssueDate),
		Status:      string(detail.DisplayStatus),
		TotalHT:     formatAmount(detail.Totals.HT),
		TotalTVA:    formatAmount(detail.Totals.TVA),
		TotalTTC:    formatAmount(detail.Totals.TTC),
		ShowBalance: detail.Kind.CarriesPayments() && detail.Status != finance.StatusBrouillon,
		Paid:        formatAmount(detail.Totals.Paid),
		Remaining:   formatAmount(detail.Totals.Remaining),
	}
	if detail.DueDate != nil {
		view.DueDate = formatDate(*detail.DueDate)
	}
	if detail.Totals.RemiseGlobale > 0 {
		view.RemiseGlobale = formatAmount(detail.Totals.RemiseGlobale)
	}
	for _, line := range detail.Lines {
		desc := fmt.Sprintf("Produit #%d", line.ProductID)
		if line.Description != nil && *line.Description != "" {
			desc = *line.Description
		}
		view.Lines = append(view.Lines, documentLineView{
			Description: desc,
			Quantity:    formatQuantity(line.Quantity),
			UnitPrice:   formatAmount(line.UnitPriceHT),
			Discount:    formatPct(line.DiscountPct),
			Tax:         formatPct(line.TaxPct),
			Total:       formatAmount(line.LineTotal),
		})
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render document template: %w", err)
	}
	return buf.String(), nil
}

var receivablesTmpl = template.Must(template.New("receivables").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>État des créances</title><style>` + baseStyle + `</style></head>
<body>
<h1>État des créances clients</h1>
<h2>BatiPro — {{.Period}}</h2>
{{range .Clients}}
<table>
  <thead>
    <tr><th colspan="2">{{.Name}}</th><th class="num">Facturé : {{.TotalBilled}}</th><th class="num">Payé : {{.TotalPaid}}</th><th class="num">Solde : {{.Balance}}</th></tr>
    <tr><th>Document</th><th>Date</th><th class="num">TTC</th><th class="num">Payé</th><th class="num">Reste</th></tr>
  </thead>
  <tbody>
    {{range .Invoices}}
    <tr><td>{{.Number}}</td><td>{{.IssueDate}}</td><td class="num">{{.TTC}}</td><td class="num">{{.Paid}}</td><td class="num">{{.Remaining}}</td></tr>
    {{end}}
  </tbody>
</table>
{{end}}
<table class="totals">
  <tr><td>Total facturé</td><td class="num">{{.TotalBilled}}</td></tr>
  <tr><td>Total encaissé</td><td class="num">{{.TotalPaid}}</td></tr>
  <tr><td><strong>Solde global</strong></td><td class="num"><strong>{{.Balance}}</strong></td></tr>
</table>
{{range .Warnings}}<div class="warning">{{.}}</div>{{end}}
</body>
</html>`))

type receivablesView struct {
	Period      string
	Clients     []receivablesClientView
	TotalBilled string
	TotalPaid   string
	Balance     string
	Warnings    []string
}

type receivablesClientView struct {
	Name        string
	TotalBilled string
	TotalPaid   string
	Balance     string
	Invoices    []receivablesInvoiceView
}

type receivablesInvoiceView struct {
	Number    string
	IssueDate string
	TTC       string
	Paid      string
	Remaining string
}

// BuildReceivablesHTML renders the per-client outstanding balance
// report.
func BuildReceivablesHTML(rep finance.ReceivablesReport, window finance.DateWindow) (string, error) {
	period := "toutes périodes"
	switch {
	case window.Start != nil && window.End != nil:
		period = fmt.Sprintf("du %s au %s", formatDate(*window.Start), formatDate(*window.End))
	case window.Start != nil:
		period = fmt.Sprintf("depuis le %s", formatDate(*window.Start))
	case window.End != nil:
		period = fmt.Sprintf("jusqu'au %s", formatDate(*window.End))
	}

	view := receivablesView{
		Period:      period,
		TotalBilled: formatAmount(rep.TotalBilled),
		TotalPaid:   formatAmount(rep.TotalPaid),
		Balance:     formatAmount(rep.Balance),
	}
	for _, c := range rep.Clients {
		name := c.ClientName
		if name == "" {
			name = fmt.Sprintf("Client inconnu #%d", c.ClientID)
		}
		group := receivablesClientView{
			Name:        name,
			TotalBilled: formatAmount(c.TotalBilled),
			TotalPaid:   formatAmount(c.TotalPaid),
			Balance:     formatAmount(c.Balance),
		}
		for _, inv := range c.Invoices {
			group.Invoices = append(group.Invoices, receivablesInvoiceView{
				Number:    inv.Number,
				IssueDate: formatDate(inv.IssueDate),
				TTC:       formatAmount(inv.TTC),
				Paid:      formatAmount(inv.Paid),
				Remaining: formatAmount(inv.Remaining),
			})
		}
		view.Clients = append(view.Clients, group)
	}
	for _, w := range rep.Warnings {
		view.Warnings = append(view.Warnings, fmt.Sprintf("%s : %s", w.Kind, w.Detail))
	}

	var buf bytes.Buffer
	if err := receivablesTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render receivables template: %w", err)
	}
	return buf.String(), nil
}
