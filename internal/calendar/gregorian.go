package calendar

import (
	"fmt"
	"time"
)

// GregorianDate is a date in the proleptic Gregorian calendar.
type GregorianDate struct {
	Year  int
	Month int
	Day   int
}

// GregorianFromTime extracts the calendar date of t in its own location.
func GregorianFromTime(t time.Time) GregorianDate {
	y, m, d := t.Date()
	return GregorianDate{Year: y, Month: int(m), Day: d}
}

// Time returns midnight UTC of g.
func (g GregorianDate) Time() time.Time {
	return time.Date(g.Year, time.Month(g.Month), g.Day, 0, 0, 0, 0, time.UTC)
}

// Validate checks the month range and the day against the month length.
func (g GregorianDate) Validate() error {
	if g.Month < 1 || g.Month > 12 {
		return fmt.Errorf("%w: gregorian month %d", ErrInvalidDate, g.Month)
	}
	if g.Day < 1 || g.Day > GregorianMonthLength(g.Year, g.Month) {
		return fmt.Errorf("%w: gregorian %04d-%02d has no day %d", ErrInvalidDate, g.Year, g.Month, g.Day)
	}
	return nil
}

func (g GregorianDate) String() string {
	return Date(g).String()
}

// IsGregorianLeapYear applies the 4/100/400 rule.
func IsGregorianLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// GregorianMonthLength returns the days in month of year. month must be 1..12.
func GregorianMonthLength(year, month int) int {
	switch month {
	case 2:
		if IsGregorianLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}
