package jobs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	expiries []QuoteExpiryPayload
	warmups  []ReceivablesWarmupPayload
}

func (f *fakeEnqueuer) EnqueueQuoteExpiry(_ context.Context, payload QuoteExpiryPayload) (*asynq.TaskInfo, error) {
	f.expiries = append(f.expiries, payload)
	return &asynq.TaskInfo{ID: "t-expiry", Queue: QueueDefault, Type: TaskQuoteExpirySweep}, nil
}

func (f *fakeEnqueuer) EnqueueReceivablesWarmup(_ context.Context, payload ReceivablesWarmupPayload) (*asynq.TaskInfo, error) {
	f.warmups = append(f.warmups, payload)
	return &asynq.TaskInfo{ID: "t-warmup", Queue: QueueDefault, Type: TaskReceivablesWarmup}, nil
}

func jobsRouter(enqueuer Enqueuer) chi.Router {
	h := NewHandler(nil, enqueuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestTriggerQuoteExpiryEnqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	rec := httptest.NewRecorder()
	jobsRouter(enq).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/quote-expiry", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, enq.expiries, 1)
	require.False(t, enq.expiries[0].AsOf.IsZero())
	require.Contains(t, rec.Body.String(), `"task_id":"t-expiry"`)
}

func TestTriggerReceivablesWarmupForwardsWindow(t *testing.T) {
	enq := &fakeEnqueuer{}
	body := strings.NewReader(`{"date_from":"2026-01-01","date_to":"2026-03-31"}`)
	rec := httptest.NewRecorder()
	jobsRouter(enq).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/receivables-warmup", body))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, enq.warmups, 1)
	require.Equal(t, "2026-01-01", enq.warmups[0].DateFrom)
	require.Equal(t, "2026-03-31", enq.warmups[0].DateTo)
}

func TestTriggerReceivablesWarmupAcceptsEmptyBody(t *testing.T) {
	enq := &fakeEnqueuer{}
	rec := httptest.NewRecorder()
	jobsRouter(enq).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/receivables-warmup", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, enq.warmups, 1)
	require.Empty(t, enq.warmups[0].DateFrom)
}

func TestTriggerWithoutQueueIsUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	jobsRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/quote-expiry", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthWithoutInspectorReportsIdleQueue(t *testing.T) {
	rec := httptest.NewRecorder()
	jobsRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"pending":0`)
}
