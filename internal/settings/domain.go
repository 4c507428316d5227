// Package settings stores the single user preference record: billing start
// day, currency, calendar system and notification switch.
package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/money"
)

var (
	// ErrNotFound indicates no settings row has been written yet.
	ErrNotFound = errors.New("settings: not found")
	// ErrUnsupportedCurrency indicates a currency outside the money table.
	ErrUnsupportedCurrency = errors.New("settings: unsupported currency")
)

// Settings holds user preferences.
type Settings struct {
	FirstDayOfMonth      int             `json:"first_day_of_month" validate:"min=1,max=31"`
	Currency             string          `json:"currency" validate:"required,len=3"`
	NotificationsEnabled bool            `json:"notifications_enabled"`
	Calendar             calendar.System `json:"calendar" validate:"required,oneof=GREGORIAN PERSIAN"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Defaults returns the preferences used before the user saves any.
func Defaults() Settings {
	return Settings{
		FirstDayOfMonth:      1,
		Currency:             money.DefaultCurrency,
		NotificationsEnabled: true,
		Calendar:             calendar.Gregorian,
	}
}

var validate = validator.New()

// Validate checks field ranges and that the currency is supported.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if !money.IsSupported(s.Currency) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, s.Currency)
	}
	return nil
}

// UpdateInput is a partial update; nil fields keep their current value.
type UpdateInput struct {
	FirstDayOfMonth      *int    `json:"first_day_of_month,omitempty"`
	Currency             *string `json:"currency,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	Calendar             *string `json:"calendar,omitempty"`
}

// Apply merges the input into current and returns the result.
func (in UpdateInput) Apply(current Settings) (Settings, error) {
	next := current
	if in.FirstDayOfMonth != nil {
		next.FirstDayOfMonth = *in.FirstDayOfMonth
	}
	if in.Currency != nil {
		next.Currency = *in.Currency
	}
	if in.NotificationsEnabled != nil {
		next.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.Calendar != nil {
		system, err := calendar.ParseSystem(*in.Calendar)
		if err != nil {
			return Settings{}, err
		}
		next.Calendar = system
	}
	return next, nil
}
