package finance

// ComputeTotals aggregates a document's lines into HT/TVA subtotals,
// applies the document-level discount once to the combined pre-discount
// TTC, and reconciles against payments when the kind carries them.
//
// The computation is pure and idempotent: the same snapshot always
// yields the same Totals. A document with zero lines produces all-zero
// totals. The global discount rate is clamped to 100 so the TTC can
// never go negative, and Remaining is clamped at zero even when the
// recorded payments exceed the TTC (admission should have stopped that
// upstream, but a bad snapshot must not surface a negative balance).
func ComputeTotals(doc DocumentInput, payments []Payment) (Totals, error) {
	if doc.DiscountPct < 0 {
		return Totals{}, &ValidationError{Field: "discount_pct", Msg: "must not be negative"}
	}

	var t Totals
	for _, line := range doc.Lines {
		p, err := PriceLine(line)
		if err != nil {
			return Totals{}, err
		}
		t.HT += p.NetHT
		t.TVA += p.TaxAmount
	}

	t.PreDiscountTTC = t.HT + t.TVA

	rate := doc.DiscountPct
	if rate > 100 {
		rate = 100
	}
	t.RemiseGlobale = t.PreDiscountTTC * (rate / 100)
	t.TTC = t.PreDiscountTTC - t.RemiseGlobale

	if !doc.Kind.CarriesPayments() {
		return t, nil
	}

	for _, p := range payments {
		t.Paid += p.Amount
	}
	t.Remaining = t.TTC - t.Paid
	if t.Remaining < 0 {
		t.Remaining = 0
	}
	return t, nil
}
