package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/batipro-erp/batipro-erp/internal/finance"
	"github.com/batipro-erp/batipro-erp/internal/shared"
	"github.com/batipro-erp/batipro-erp/report"
)

// ReceivablesWarmupJob renders the créances PDF ahead of time so the
// interactive download is a cache hit.
type ReceivablesWarmupJob struct {
	Reports *report.Service
	Logger  *slog.Logger
}

func NewReceivablesWarmupJob(reports *report.Service, logger *slog.Logger) *ReceivablesWarmupJob {
	return &ReceivablesWarmupJob{Reports: reports, Logger: logger}
}

// Handle processes warm-up tasks.
func (j *ReceivablesWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("receivables warmup: handler not configured")
	}
	var payload ReceivablesWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start, err := shared.ParseDate(payload.DateFrom)
	if err != nil {
		j.Logger.Warn("receivables warmup: bad date_from", slog.Any("error", err))
		return asynq.SkipRetry
	}
	end, err := shared.ParseDate(payload.DateTo)
	if err != nil {
		j.Logger.Warn("receivables warmup: bad date_to", slog.Any("error", err))
		return asynq.SkipRetry
	}

	pdf, err := j.Reports.ReceivablesPDF(ctx, finance.DateWindow{Start: start, End: end})
	if err != nil {
		j.Logger.Error("receivables warmup failed", slog.Any("error", err))
		return err
	}
	j.Logger.Info("receivables pdf warmed", slog.Int("bytes", len(pdf)))
	return nil
}
