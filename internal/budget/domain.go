// Package budget stores spending limits per category and period, generates
// repeated monthly budgets and evaluates spending against the 50% and 80%
// alert thresholds.
package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/period"
)

var (
	// ErrNotFound indicates the budget id does not exist.
	ErrNotFound = errors.New("budget: not found")
	// ErrOverlap indicates the period collides with an existing budget in
	// the same scope. Returned wrapped in *OverlapError.
	ErrOverlap = errors.New("budget: overlapping period")
	// ErrInvalidAmount indicates a non-positive amount limit.
	ErrInvalidAmount = errors.New("budget: amount limit must be positive")
)

// MaxRepeat caps how many monthly budgets one request may create.
const MaxRepeat = 120

// OverlapError names the scope whose existing budget blocks the request.
type OverlapError struct {
	Category string
	Existing period.Period
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("budget: a budget already exists for %s that overlaps %s", e.Category, e.Existing)
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }

// Budget is a spending limit over an inclusive period. StartDate and EndDate
// are numbered in Calendar; StartOn and EndOn hold the same days in the
// Gregorian calendar.
type Budget struct {
	ID          int64           `json:"id"`
	CategoryID  *int64          `json:"category_id"`
	AmountLimit decimal.Decimal `json:"amount_limit"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Calendar    calendar.System `json:"calendar"`
	Repeat      int             `json:"repeat"`
	SeriesID    uuid.UUID       `json:"series_id"`
	StartOn     time.Time       `json:"-"`
	EndOn       time.Time       `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Period returns the budget window in its own calendar.
func (b Budget) Period() period.Period {
	return period.Period{StartDate: b.StartDate, EndDate: b.EndDate}
}

// CreateInput describes a new budget. Empty dates default to the current
// billing period from settings.
type CreateInput struct {
	CategoryID  *int64          `json:"category_id" validate:"omitempty,gt=0"`
	AmountLimit decimal.Decimal `json:"amount_limit"`
	StartDate   string          `json:"start_date" validate:"required_with=EndDate"`
	EndDate     string          `json:"end_date" validate:"required_with=StartDate"`
	Repeat      int             `json:"repeat" validate:"min=0,max=120"`
}

// UpdateInput replaces the editable fields of one budget record.
type UpdateInput struct {
	CategoryID  *int64          `json:"category_id" validate:"omitempty,gt=0"`
	AmountLimit decimal.Decimal `json:"amount_limit"`
	StartDate   string          `json:"start_date" validate:"required"`
	EndDate     string          `json:"end_date" validate:"required"`
}

// CreateResult reports the base budget, the generated repeats and the
// repeat periods skipped because they overlapped an existing budget.
type CreateResult struct {
	Budget  Budget          `json:"budget"`
	Repeats []Budget        `json:"repeats"`
	Skipped []period.Period `json:"skipped"`
}

// ListFilters narrows a budget listing. A nil CategoryID with Overall set
// selects budgets without a category. A non-zero ActiveOn keeps budgets
// whose period contains that day.
type ListFilters struct {
	CategoryID *int64
	Overall    bool
	ActiveOn   time.Time
}

var validate = validator.New()

// Validate checks structural constraints and the amount sign.
func (in CreateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if !in.AmountLimit.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks structural constraints and the amount sign.
func (in UpdateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if !in.AmountLimit.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
