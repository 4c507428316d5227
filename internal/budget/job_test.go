package budget

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/hesab/hesab/internal/jobs"
	"github.com/hesab/hesab/jobs"
)

type stubChecker struct {
	category *int64
	alerts   []Alert
	err      error
	calls    int
}

func (s *stubChecker) CheckThresholds(_ context.Context, categoryID *int64) ([]Alert, error) {
	s.calls++
	s.category = categoryID
	return s.alerts, s.err
}

func TestThresholdScanJobPassesCategory(t *testing.T) {
	checker := &stubChecker{alerts: []Alert{{BudgetID: 1, Level: LevelWarning}, {BudgetID: 2, Level: LevelCritical}}}
	job := NewThresholdScanJob(checker, slog.New(slog.NewTextHandler(io.Discard, nil)), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := jobs.NewThresholdScanTask(int64Ptr(4))
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.NotNil(t, checker.category)
	assert.Equal(t, int64(4), *checker.category)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(jobs.TaskBudgetThresholdScan, nil)))
	assert.Nil(t, checker.category)
	assert.Equal(t, 2, checker.calls)
}

func TestThresholdScanJobErrors(t *testing.T) {
	boom := errors.New("boom")
	checker := &stubChecker{err: boom}
	job := NewThresholdScanJob(checker, nil, nil)

	task, err := jobs.NewThresholdScanTask(nil)
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)

	bad := asynq.NewTask(jobs.TaskBudgetThresholdScan, []byte("not json"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)
	assert.Equal(t, 1, checker.calls)
}
