// Package notifications exposes recorded budget alerts as a feed that can
// be read, marked read and cleared.
package notifications

import (
	"errors"
	"time"
)

// ErrNotFound indicates the notification id does not exist or was cleared.
var ErrNotFound = errors.New("notifications: not found")

// Notification is one recorded budget threshold crossing.
type Notification struct {
	ID        int64     `json:"id"`
	BudgetID  int64     `json:"budget_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Percent   string    `json:"percent"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilters narrows the feed.
type ListFilters struct {
	UnreadOnly bool
}
