package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskQuoteExpirySweep expires sent quotes past their validity date.
	TaskQuoteExpirySweep = "billing:quote_expiry"
	// TaskReceivablesWarmup pre-renders the créances PDF so the first
	// morning download hits the cache.
	TaskReceivablesWarmup = "report:receivables_warmup"
)

// QuoteExpiryPayload parameterizes a quote expiry sweep. A zero AsOf
// means "now".
type QuoteExpiryPayload struct {
	AsOf time.Time `json:"as_of"`
}

// NewQuoteExpiryTask constructs the sweep task.
func NewQuoteExpiryTask(payload QuoteExpiryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteExpirySweep, data), nil
}

// ReceivablesWarmupPayload optionally restricts the warmed report to a
// date window (YYYY-MM-DD, both ends inclusive).
type ReceivablesWarmupPayload struct {
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

// NewReceivablesWarmupTask constructs the warm-up task.
func NewReceivablesWarmupTask(payload ReceivablesWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceivablesWarmup, data), nil
}
