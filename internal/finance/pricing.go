package finance

// PriceLine derives the money breakdown of one document line:
// gross HT, line discount, net HT, tax and TTC, in that order. The
// document-level discount is applied later by ComputeTotals, never here.
//
// A zero quantity prices to all-zero outputs. Negative quantity, price
// or rates are rejected. Rates above 100 are legal (a 100% discount is
// a free line) but flagged Unusual.
func PriceLine(in LineInput) (LinePricing, error) {
	if in.Quantity < 0 {
		return LinePricing{}, &ValidationError{Field: "quantity", Msg: "must not be negative"}
	}
	if in.UnitPriceHT < 0 {
		return LinePricing{}, &ValidationError{Field: "unit_price_ht", Msg: "must not be negative"}
	}
	if in.DiscountPct < 0 {
		return LinePricing{}, &ValidationError{Field: "discount_pct", Msg: "must not be negative"}
	}
	if in.TaxPct < 0 {
		return LinePricing{}, &ValidationError{Field: "tax_pct", Msg: "must not be negative"}
	}

	gross := in.UnitPriceHT * in.Quantity
	discount := gross * (in.DiscountPct / 100)
	net := gross - discount
	tax := net * (in.TaxPct / 100)

	return LinePricing{
		GrossHT:        gross,
		DiscountAmount: discount,
		NetHT:          net,
		TaxAmount:      tax,
		TotalTTC:       net + tax,
		Unusual:        in.DiscountPct > 100 || in.TaxPct > 100,
	}, nil
}
