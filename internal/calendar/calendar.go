// Package calendar converts dates between the Gregorian and Persian (Shamsi)
// calendars through Julian Day Numbers and exposes the calendar metadata the
// budget layer needs: month lengths, leap years, names and display formats.
//
// Every function is a pure function of its arguments.
package calendar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDate indicates a year/month/day triple the calendar does not contain.
	ErrInvalidDate = errors.New("calendar: invalid date")
	// ErrUnsupportedCalendarSystem indicates a calendar tag other than GREGORIAN or PERSIAN.
	ErrUnsupportedCalendarSystem = errors.New("calendar: unsupported calendar system")
)

// System identifies the calendar a date triple is expressed in.
type System string

const (
	// Gregorian is the proleptic Gregorian calendar.
	Gregorian System = "GREGORIAN"
	// Persian is the rule-based Persian (Shamsi) calendar with a 33-year leap cycle.
	Persian System = "PERSIAN"
)

// ParseSystem resolves a stored or user supplied calendar tag.
func ParseSystem(raw string) (System, error) {
	switch System(strings.ToUpper(strings.TrimSpace(raw))) {
	case Gregorian:
		return Gregorian, nil
	case Persian:
		return Persian, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCalendarSystem, raw)
}

// Validate reports whether s is one of the supported systems.
func (s System) Validate() error {
	switch s {
	case Gregorian, Persian:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedCalendarSystem, string(s))
}

func (s System) String() string {
	return string(s)
}

// MonthLength returns the number of days of month in year for the given system.
func MonthLength(s System, year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	switch s {
	case Gregorian:
		return GregorianMonthLength(year, month), nil
	case Persian:
		return PersianMonthLength(year, month), nil
	}
	return 0, s.Validate()
}

// ToGregorian interprets d in system s and returns the Gregorian equivalent.
func ToGregorian(d Date, s System) (GregorianDate, error) {
	switch s {
	case Gregorian:
		g := GregorianDate(d)
		if err := g.Validate(); err != nil {
			return GregorianDate{}, err
		}
		return g, nil
	case Persian:
		return PersianToGregorian(PersianDate(d))
	}
	return GregorianDate{}, s.Validate()
}

// FromGregorian expresses g in system s.
func FromGregorian(g GregorianDate, s System) (Date, error) {
	switch s {
	case Gregorian:
		if err := g.Validate(); err != nil {
			return Date{}, err
		}
		return Date(g), nil
	case Persian:
		p, err := GregorianToPersian(g)
		if err != nil {
			return Date{}, err
		}
		return Date(p), nil
	}
	return Date{}, s.Validate()
}
