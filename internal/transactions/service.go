package transactions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/settings"
)

var (
	validate     = validator.New()
	errInvalidID = fmt.Errorf("%w: invalid transaction id", ErrNotFound)
)

// SettingsProvider supplies the calendar dates are entered and shown in.
type SettingsProvider interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Enqueuer schedules a threshold scan for a category.
type Enqueuer interface {
	EnqueueThresholdScan(ctx context.Context, categoryID *int64) (*asynq.TaskInfo, error)
}

type Service struct {
	repo     Repository
	settings SettingsProvider
	enqueuer Enqueuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds the service. enqueuer may be nil.
func NewService(repo Repository, settings SettingsProvider, enqueuer Enqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, settings: settings, enqueuer: enqueuer, logger: logger, now: time.Now}
}

// List returns transactions, newest first, with dates shown in the
// settings calendar.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Transaction, error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	system := s.calendar(ctx)
	for i := range items {
		items[i] = localize(items[i], system)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Transaction, error) {
	if id <= 0 {
		return Transaction{}, errInvalidID
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	return localize(t, s.calendar(ctx)), nil
}

// Create stores a transaction. An expense then schedules a threshold scan
// for its category; a failed enqueue is logged and does not fail the create.
func (s *Service) Create(ctx context.Context, input CreateInput) (Transaction, error) {
	input.Type = Type(strings.ToUpper(strings.TrimSpace(string(input.Type))))
	input.Note = strings.TrimSpace(input.Note)
	if err := validate.Struct(input); err != nil {
		return Transaction{}, err
	}
	if !input.Amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}

	system := s.calendar(ctx)
	if strings.TrimSpace(input.Calendar) != "" {
		parsed, err := calendar.ParseSystem(input.Calendar)
		if err != nil {
			return Transaction{}, err
		}
		system = parsed
	}
	day := calendar.GregorianFromTime(s.now())
	if raw := strings.TrimSpace(input.Date); raw != "" {
		local, err := calendar.ParseDate(raw, system)
		if err != nil {
			return Transaction{}, err
		}
		if day, err = calendar.ToGregorian(local, system); err != nil {
			return Transaction{}, err
		}
	}

	stored, err := s.repo.Create(ctx, Transaction{
		CategoryID: input.CategoryID,
		Type:       input.Type,
		Amount:     input.Amount,
		Note:       input.Note,
		OccurredOn: day.Time(),
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	stored = localize(stored, system)

	if stored.Type == TypeExpense && s.enqueuer != nil {
		if _, err := s.enqueuer.EnqueueThresholdScan(ctx, stored.CategoryID); err != nil {
			s.logger.Warn("enqueue threshold scan", slog.Int64("transaction_id", stored.ID), slog.Any("error", err))
		}
	}
	return stored, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errInvalidID
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) calendar(ctx context.Context) calendar.System {
	cfg, err := s.settings.Get(ctx)
	if err != nil || cfg.Calendar.Validate() != nil {
		return calendar.Gregorian
	}
	return cfg.Calendar
}

func localize(t Transaction, system calendar.System) Transaction {
	g := calendar.GregorianFromTime(t.OccurredOn)
	t.GregorianDate = g.String()
	t.Date = t.GregorianDate
	t.Calendar = calendar.Gregorian
	if local, err := calendar.FromGregorian(g, system); err == nil {
		t.Date = local.String()
		t.Calendar = system
	}
	return t
}
