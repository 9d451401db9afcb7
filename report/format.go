package report

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printed documents use French conventions: comma decimals, space
// thousands separators, DD/MM/YYYY dates. Amounts are in dinars.
var frPrinter = message.NewPrinter(language.French)

func formatAmount(v float64) string {
	return frPrinter.Sprintf("%.2f DA", v)
}

func formatQuantity(v float64) string {
	return frPrinter.Sprintf("%v", v)
}

func formatPct(v float64) string {
	return frPrinter.Sprintf("%v %%", v)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
