package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Level classifies how much of a budget has been spent.
type Level string

const (
	LevelNone     Level = "NONE"
	LevelWarning  Level = "WARNING"
	LevelCritical Level = "CRITICAL"
)

var (
	warningThreshold  = decimal.NewFromInt(50)
	criticalThreshold = decimal.NewFromInt(80)
	hundred           = decimal.NewFromInt(100)
)

// Usage is the spending state of a budget.
type Usage struct {
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
	Level     Level           `json:"level"`
}

// EvaluateUsage computes the spent percentage and level: WARNING from 50%,
// CRITICAL from 80%. A non-positive limit yields LevelNone.
func EvaluateUsage(limit, spent decimal.Decimal) Usage {
	u := Usage{
		Limit:     limit,
		Spent:     spent,
		Remaining: limit.Sub(spent),
		Percent:   decimal.Zero,
		Level:     LevelNone,
	}
	if !limit.IsPositive() {
		return u
	}
	pct := spent.Div(limit).Mul(hundred)
	u.Percent = pct.Round(2)
	switch {
	case pct.GreaterThanOrEqual(criticalThreshold):
		u.Level = LevelCritical
	case pct.GreaterThanOrEqual(warningThreshold):
		u.Level = LevelWarning
	}
	return u
}

// Alert is a threshold crossing recorded for later display.
type Alert struct {
	BudgetID  int64     `json:"budget_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	Percent   string    `json:"percent"`
	CreatedAt time.Time `json:"created_at"`
}
