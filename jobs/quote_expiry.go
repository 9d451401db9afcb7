package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/batipro-erp/batipro-erp/internal/billing"
)

// QuoteExpiryJob sweeps sent quotes whose validity date has passed and
// marks them expired.
type QuoteExpiryJob struct {
	Billing *billing.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

func NewQuoteExpiryJob(billingSvc *billing.Service, logger *slog.Logger) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		Billing: billingSvc,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes quote expiry tasks.
func (j *QuoteExpiryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Billing == nil {
		return errors.New("quote expiry: handler not configured")
	}
	var payload QuoteExpiryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = j.clock()
	}

	expired, err := j.Billing.ExpireOverdueQuotes(ctx, asOf)
	if err != nil {
		j.Logger.Error("quote expiry sweep failed", slog.Any("error", err))
		return err
	}
	j.Logger.Info("quote expiry sweep done",
		slog.Time("as_of", asOf),
		slog.Int("expired", expired))
	return nil
}
