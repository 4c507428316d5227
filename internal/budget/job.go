package budget

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/hesab/hesab/internal/jobs"
	"github.com/hesab/hesab/jobs"
)

// ThresholdChecker evaluates budgets and records alerts.
type ThresholdChecker interface {
	CheckThresholds(ctx context.Context, categoryID *int64) ([]Alert, error)
}

// ThresholdScanJob runs threshold checks from the queue.
type ThresholdScanJob struct {
	checker ThresholdChecker
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewThresholdScanJob builds the job handler.
func NewThresholdScanJob(checker ThresholdChecker, logger *slog.Logger, metrics *jobmetrics.Metrics) *ThresholdScanJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThresholdScanJob{checker: checker, logger: logger.With(slog.String("job", jobs.TaskBudgetThresholdScan)), metrics: metrics}
}

// Handle processes one threshold scan task.
func (j *ThresholdScanJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.checker == nil {
		return errors.New("threshold scan: handler not configured")
	}
	var payload jobs.ThresholdScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.metrics.Track(jobs.TaskBudgetThresholdScan)
	defer func() {
		err = tracker.End(err)
	}()

	alerts, err := j.checker.CheckThresholds(ctx, payload.CategoryID)
	if err != nil {
		j.logger.Error("threshold scan failed", slog.Any("error", err))
		return err
	}
	counts := make(map[Level]int)
	for _, a := range alerts {
		counts[a.Level]++
		j.logger.Warn("budget threshold reached",
			slog.Int64("budget_id", a.BudgetID),
			slog.String("title", a.Title),
			slog.String("level", string(a.Level)),
			slog.String("percent", a.Percent),
		)
	}
	for level, n := range counts {
		j.metrics.AddBudgetAlerts(string(level), n)
	}
	return nil
}
