package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/hibiken/asynq"

	"github.com/hesab/hesab/jobs"
)

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	if redisAddr == "" {
		return nil, errors.New("jobs cli: redis address required")
	}
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	return &JobsCLI{client: asynq.NewClient(opts), inspector: asynq.NewInspector(opts)}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a supported job by name. categoryID only applies to the
// threshold scan.
func (c *JobsCLI) Trigger(ctx context.Context, name string, categoryID *int64) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	task, err := BuildTask(name, categoryID)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault), asynq.MaxRetry(3))
}

// BuildTask maps a task name to a task with its default payload.
func BuildTask(name string, categoryID *int64) (*asynq.Task, error) {
	switch name {
	case jobs.TaskBudgetThresholdScan:
		return jobs.NewThresholdScanTask(categoryID)
	case jobs.TaskIdempotencyCleanup:
		return jobs.NewIdempotencyCleanupTask(0)
	}
	return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

// JobQueue is the part of JobsCLI the commands need.
type JobQueue interface {
	Trigger(ctx context.Context, name string, categoryID *int64) (*asynq.TaskInfo, error)
	InspectQueue(ctx context.Context) (QueueStats, error)
}

// TriggerOptions configures the jobs trigger command.
type TriggerOptions struct {
	Name       string
	CategoryID int64
	Stdout     io.Writer
	Stderr     io.Writer
}

// TriggerCommand enqueues one job and returns the exit code.
func TriggerCommand(ctx context.Context, queue JobQueue, opts TriggerOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Name == "" {
		opts.Name = jobs.TaskBudgetThresholdScan
	}
	var category *int64
	if opts.CategoryID > 0 {
		category = &opts.CategoryID
	}
	info, err := queue.Trigger(ctx, opts.Name, category)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "jobs trigger: %v\n", err)
		return 1
	}
	fmt.Fprintf(opts.Stdout, "enqueued %s id=%s queue=%s\n", opts.Name, info.ID, info.Queue)
	return 0
}

// StatsOptions configures the jobs stats command.
type StatsOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// StatsCommand prints the default queue counters and returns the exit code.
func StatsCommand(ctx context.Context, queue JobQueue, opts StatsOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	stats, err := queue.InspectQueue(ctx)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "jobs stats: %v\n", err)
		return 1
	}
	tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUEUE\tPENDING\tACTIVE\tSCHEDULED\tRETRY")
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(opts.Stderr, "jobs stats: %v\n", err)
		return 1
	}
	return 0
}
