package budget

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/money"
	"github.com/hesab/hesab/internal/period"
	"github.com/hesab/hesab/internal/settings"
	"github.com/hesab/hesab/internal/shared"
)

// SettingsProvider supplies the billing start day, calendar and currency.
type SettingsProvider interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// CategoryNamer resolves a budget scope to a display name.
type CategoryNamer interface {
	DisplayName(ctx context.Context, id *int64) (string, error)
}

// Auditor records budget mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates budget creation, edits and threshold checks.
type Service struct {
	repo       Repository
	settings   SettingsProvider
	categories CategoryNamer
	formatter  *money.Formatter
	audit      Auditor
	logger     *slog.Logger
	now        func() time.Time
	newID      func() uuid.UUID
}

// NewService builds the service.
func NewService(repo Repository, settings SettingsProvider, categories CategoryNamer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		settings:   settings,
		categories: categories,
		formatter:  money.NewFormatter(language.English),
		logger:     logger,
		now:        time.Now,
		newID:      uuid.New,
	}
}

// WithAuditor attaches an audit trail for create, update and delete.
func (s *Service) WithAuditor(a Auditor) *Service {
	s.audit = a
	return s
}

// CurrentPeriod is the billing window containing today.
type CurrentPeriod struct {
	period.Period
	Calendar calendar.System `json:"calendar"`
}

// DefaultPeriod returns the billing period containing today according to
// the saved start day and calendar.
func (s *Service) DefaultPeriod(ctx context.Context) (CurrentPeriod, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return CurrentPeriod{}, err
	}
	p, err := period.CurrentPeriod(cfg.FirstDayOfMonth, cfg.Calendar, s.today())
	if err != nil {
		return CurrentPeriod{}, err
	}
	return CurrentPeriod{Period: p, Calendar: cfg.Calendar}, nil
}

// PreviewRepeats returns the periods Create would generate for base without
// storing anything.
func (s *Service) PreviewRepeats(ctx context.Context, base period.Period, repeat int) ([]period.Period, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if repeat == 0 {
		repeat = 1
	}
	return period.GenerateRepeatedPeriods(base, repeat, cfg.Calendar)
}

// Create stores a budget and, when Repeat > 1, one budget for each following
// month. The base period must not overlap an existing budget of the same
// scope. Generated periods that overlap are skipped. All records share a
// series id; generated ones carry Repeat 1.
func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	if err := input.Validate(); err != nil {
		return CreateResult{}, err
	}
	repeat := input.Repeat
	if repeat == 0 {
		repeat = 1
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return CreateResult{}, err
	}
	system := cfg.Calendar

	base := period.Period{StartDate: input.StartDate, EndDate: input.EndDate}
	if base.StartDate == "" {
		base, err = period.CurrentPeriod(cfg.FirstDayOfMonth, system, s.today())
		if err != nil {
			return CreateResult{}, err
		}
	}
	repeats, err := period.GenerateRepeatedPeriods(base, repeat, system)
	if err != nil {
		return CreateResult{}, err
	}

	series := s.newID()
	first, err := newBudget(input.CategoryID, input.AmountLimit, base, system, repeat, series)
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{Repeats: []Budget{}, Skipped: []period.Period{}}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.LockScope(ctx, shared.BudgetScopeLockKey(input.CategoryID)); err != nil {
			return err
		}
		if err := s.ensureNoOverlap(ctx, tx, first, 0); err != nil {
			return err
		}
		stored, err := tx.Insert(ctx, first)
		if err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}
		result.Budget = stored

		for _, p := range repeats {
			next, err := newBudget(input.CategoryID, input.AmountLimit, p, system, 1, series)
			if err != nil {
				return err
			}
			existing, err := tx.FindOverlapping(ctx, next.CategoryID, next.StartOn, next.EndOn, 0)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				s.logger.Info("skipping overlapping repeat",
					slog.String("series_id", series.String()),
					slog.String("start_date", p.StartDate),
					slog.String("end_date", p.EndDate),
					slog.Int64("existing_id", existing[0].ID),
				)
				result.Skipped = append(result.Skipped, p)
				continue
			}
			stored, err := tx.Insert(ctx, next)
			if err != nil {
				return fmt.Errorf("insert repeat: %w", err)
			}
			result.Repeats = append(result.Repeats, stored)
		}
		return nil
	})
	if err != nil {
		return CreateResult{}, err
	}

	s.logger.Info("budget created",
		slog.Int64("budget_id", result.Budget.ID),
		slog.String("series_id", series.String()),
		slog.String("calendar", system.String()),
		slog.Int("repeats", len(result.Repeats)),
		slog.Int("skipped", len(result.Skipped)),
	)
	s.record(ctx, "budget.create", result.Budget.ID, map[string]any{
		"series_id":    series.String(),
		"amount_limit": result.Budget.AmountLimit.String(),
		"start_date":   result.Budget.StartDate,
		"end_date":     result.Budget.EndDate,
		"repeats":      len(result.Repeats),
	})
	return result, nil
}

// Update replaces the edited record only. Budgets generated alongside it
// in the same series are independent and stay untouched. Dates are read in
// the calendar the budget was created with.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Budget, error) {
	if err := input.Validate(); err != nil {
		return Budget{}, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Budget{}, err
	}
	next, err := newBudget(input.CategoryID, input.AmountLimit,
		period.Period{StartDate: input.StartDate, EndDate: input.EndDate},
		current.Calendar, current.Repeat, current.SeriesID)
	if err != nil {
		return Budget{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	var updated Budget
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.LockScope(ctx, shared.BudgetScopeLockKey(next.CategoryID)); err != nil {
			return err
		}
		if err := s.ensureNoOverlap(ctx, tx, next, next.ID); err != nil {
			return err
		}
		updated, err = tx.Update(ctx, next)
		return err
	})
	if err != nil {
		return Budget{}, err
	}
	s.record(ctx, "budget.update", updated.ID, map[string]any{
		"amount_limit": updated.AmountLimit.String(),
		"start_date":   updated.StartDate,
		"end_date":     updated.EndDate,
	})
	return updated, nil
}

// DisplayCurrency returns the currency amounts are shown in, falling back
// to the default when settings cannot be read.
func (s *Service) DisplayCurrency(ctx context.Context) string {
	cfg, err := s.settings.Get(ctx)
	if err != nil || cfg.Currency == "" {
		return money.DefaultCurrency
	}
	return cfg.Currency
}

// Get returns one budget.
func (s *Service) Get(ctx context.Context, id int64) (Budget, error) {
	return s.repo.Get(ctx, id)
}

// List returns budgets, newest period first.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Budget, error) {
	return s.repo.List(ctx, filters)
}

// Delete removes one budget record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "budget.delete", id, nil)
	return nil
}

// Usage reports spending against budget id.
func (s *Service) Usage(ctx context.Context, id int64) (Usage, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return Usage{}, err
	}
	spent, err := s.repo.TotalExpenses(ctx, b.CategoryID, b.StartOn, b.EndOn)
	if err != nil {
		return Usage{}, err
	}
	return EvaluateUsage(b.AmountLimit, spent), nil
}

// CheckThresholds evaluates the budgets whose period contains today, or only
// those of categoryID when set, and records an alert for each one at or
// above 50% usage. A budget is alerted at most once per level, so repeated
// scans return only new crossings. Nothing is evaluated while notifications
// are disabled.
func (s *Service) CheckThresholds(ctx context.Context, categoryID *int64) ([]Alert, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.NotificationsEnabled {
		s.logger.Debug("notifications disabled, skipping threshold check")
		return nil, nil
	}
	budgets, err := s.repo.List(ctx, ListFilters{CategoryID: categoryID, ActiveOn: s.today().Time()})
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, b := range budgets {
		spent, err := s.repo.TotalExpenses(ctx, b.CategoryID, b.StartOn, b.EndOn)
		if err != nil {
			return alerts, fmt.Errorf("budget %d: total expenses: %w", b.ID, err)
		}
		usage := EvaluateUsage(b.AmountLimit, spent)
		if usage.Level == LevelNone {
			continue
		}
		name, err := s.categories.DisplayName(ctx, b.CategoryID)
		if err != nil {
			return alerts, err
		}
		alert := Alert{
			BudgetID: b.ID,
			Title:    name,
			Message: "Spent: " + s.formatter.Format(usage.Spent, cfg.Currency) +
				"\nRemaining: " + s.formatter.Format(usage.Remaining, cfg.Currency),
			Level:     usage.Level,
			Percent:   usage.Percent.StringFixed(2),
			CreatedAt: s.now().UTC(),
		}
		inserted, err := s.repo.InsertAlert(ctx, alert)
		if err != nil {
			return alerts, fmt.Errorf("budget %d: record alert: %w", b.ID, err)
		}
		if !inserted {
			continue
		}
		alerts = append(alerts, alert)
	}
	s.logger.Info("threshold check completed", slog.Int("budgets", len(budgets)), slog.Int("alerts", len(alerts)))
	return alerts, nil
}

func (s *Service) ensureNoOverlap(ctx context.Context, tx TxRepository, b Budget, excludeID int64) error {
	existing, err := tx.FindOverlapping(ctx, b.CategoryID, b.StartOn, b.EndOn, excludeID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	name, err := s.categories.DisplayName(ctx, b.CategoryID)
	if err != nil {
		return err
	}
	return &OverlapError{Category: name, Existing: existing[0].Period()}
}

// record writes an audit entry. Failures are logged and do not undo the
// mutation.
func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "budget",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
		At:       s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Int64("budget_id", id), slog.Any("error", err))
	}
}

func (s *Service) today() calendar.GregorianDate {
	return calendar.GregorianFromTime(s.now())
}

func newBudget(categoryID *int64, limit decimal.Decimal, p period.Period, system calendar.System, repeat int, series uuid.UUID) (Budget, error) {
	start, end, err := p.ToGregorian(system)
	if err != nil {
		return Budget{}, err
	}
	return Budget{
		CategoryID:  categoryID,
		AmountLimit: limit,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Calendar:    system,
		Repeat:      repeat,
		SeriesID:    series,
		StartOn:     start.Time(),
		EndOn:       end.Time(),
	}, nil
}
