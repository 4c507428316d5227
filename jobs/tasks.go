package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBudgetThresholdScan evaluates budgets against the alert thresholds.
	TaskBudgetThresholdScan = "budget:threshold_scan"
	// TaskIdempotencyCleanup prunes expired request idempotency keys.
	TaskIdempotencyCleanup = "maintenance:idempotency_cleanup"
)

// ThresholdScanPayload limits a scan to one category when CategoryID is set.
type ThresholdScanPayload struct {
	CategoryID *int64 `json:"category_id,omitempty"`
}

// NewThresholdScanTask constructs an Asynq task.
func NewThresholdScanTask(categoryID *int64) (*asynq.Task, error) {
	data, err := json.Marshal(ThresholdScanPayload{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBudgetThresholdScan, data), nil
}

// IdempotencyCleanupPayload sets how long keys are retained.
type IdempotencyCleanupPayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewIdempotencyCleanupTask constructs an Asynq task.
func NewIdempotencyCleanupTask(retentionHours int) (*asynq.Task, error) {
	data, err := json.Marshal(IdempotencyCleanupPayload{RetentionHours: retentionHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}
