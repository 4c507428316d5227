package shared

import "fmt"

// BudgetScopeLockKey names the critical section guarding overlap checks for
// one budget scope. Budgets without a category share the overall key.
func BudgetScopeLockKey(categoryID *int64) string {
	if categoryID == nil {
		return "budget:overall:lock"
	}
	return fmt.Sprintf("budget:category:%d:lock", *categoryID)
}
