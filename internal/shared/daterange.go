package shared

import (
	"fmt"
	"net/http"
	"time"

	"github.com/batipro-erp/batipro-erp/internal/finance"
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date, returning nil for the empty
// string so optional query parameters read naturally.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return &t, nil
}

// DateWindowFromQuery builds the inclusive report window from
// date_from/date_to query parameters. Absent parameters mean all time.
func DateWindowFromQuery(r *http.Request) (finance.DateWindow, error) {
	start, err := ParseDate(r.URL.Query().Get("date_from"))
	if err != nil {
		return finance.DateWindow{}, err
	}
	end, err := ParseDate(r.URL.Query().Get("date_to"))
	if err != nil {
		return finance.DateWindow{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return finance.DateWindow{}, fmt.Errorf("date_to %s precedes date_from %s", end.Format(dateLayout), start.Format(dateLayout))
	}
	return finance.DateWindow{Start: start, End: end}, nil
}
