package categories

import "errors"

// ErrNotFound indicates the category id does not exist.
var ErrNotFound = errors.New("categories: not found")

// Type separates spending categories from income categories.
type Type string

const (
	TypeExpense Type = "EXPENSE"
	TypeIncome  Type = "INCOME"
)

// Display names used when a budget has no category or a dangling one.
const (
	OverallName = "Overall"
	UnknownName = "Unknown Category"
)

// Category groups transactions and budgets.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required,max=64"`
	Type  Type   `json:"type" validate:"required,oneof=EXPENSE INCOME"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// ListFilters narrows a category listing.
type ListFilters struct {
	Type   Type
	Search string
}
