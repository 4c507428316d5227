// Package transactions records income and expenses. Each new expense
// schedules a threshold scan for its category.
package transactions

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hesab/hesab/internal/calendar"
)

var (
	// ErrNotFound indicates the transaction id does not exist.
	ErrNotFound = errors.New("transactions: not found")
	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("transactions: amount must be positive")
)

// Type separates spending from income.
type Type string

const (
	TypeExpense Type = "EXPENSE"
	TypeIncome  Type = "INCOME"
)

// Transaction is one recorded movement of money. OccurredOn is the
// Gregorian day it happened; Date repeats that day in Calendar.
type Transaction struct {
	ID            int64           `json:"id"`
	CategoryID    *int64          `json:"category_id"`
	Type          Type            `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
	OccurredOn    time.Time       `json:"-"`
	Date          string          `json:"date"`
	Calendar      calendar.System `json:"calendar"`
	GregorianDate string          `json:"gregorian_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateInput describes a new transaction. Date is read in Calendar; an
// empty Calendar means the one from settings and an empty Date means today.
type CreateInput struct {
	CategoryID *int64          `json:"category_id" validate:"omitempty,gt=0"`
	Type       Type            `json:"type" validate:"required,oneof=EXPENSE INCOME"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" validate:"max=255"`
	Date       string          `json:"date"`
	Calendar   string          `json:"calendar"`
}

// ListFilters narrows a transaction listing. Zero bounds are open.
type ListFilters struct {
	Type       Type
	CategoryID *int64
	From       time.Time
	To         time.Time
}
