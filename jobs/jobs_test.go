package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/hesab/hesab/internal/jobs"
)

type stubCleaner struct {
	retention time.Duration
	removed   int64
	err       error
}

func (s *stubCleaner) Cleanup(_ context.Context, olderThan time.Duration) (int64, error) {
	s.retention = olderThan
	return s.removed, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThresholdScanTaskPayload(t *testing.T) {
	id := int64(7)
	task, err := NewThresholdScanTask(&id)
	require.NoError(t, err)
	assert.Equal(t, TaskBudgetThresholdScan, task.Type())

	var payload ThresholdScanPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.NotNil(t, payload.CategoryID)
	assert.Equal(t, id, *payload.CategoryID)

	task, err = NewThresholdScanTask(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(task.Payload()))
}

func TestIdempotencyCleanupUsesRetention(t *testing.T) {
	store := &stubCleaner{removed: 3}
	job := NewIdempotencyCleanupJob(store, quietLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewIdempotencyCleanupTask(24)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 24*time.Hour, store.retention)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskIdempotencyCleanup, nil)))
	assert.Equal(t, DefaultIdempotencyRetention, store.retention)
}

func TestIdempotencyCleanupErrors(t *testing.T) {
	boom := errors.New("db down")
	job := NewIdempotencyCleanupJob(&stubCleaner{err: boom}, quietLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewIdempotencyCleanupTask(1)
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)

	bad := asynq.NewTask(TaskIdempotencyCleanup, []byte("{"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func TestHealthHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 2}}, quietLogger()).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":2,"active":0,"retry":0}`, rr.Body.String())

	r = chi.NewRouter()
	NewHandler(stubInspector{err: errors.New("redis down")}, quietLogger()).MountRoutes(r)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
