// Package period derives budget period boundaries from a billing start day
// and rolls them forward month by month in either calendar system. Dates
// cross this package as YYYY-MM-DD strings numbered in the active calendar.
package period

import (
	"errors"
	"fmt"

	"github.com/hesab/hesab/internal/calendar"
)

// ErrInvalidInput indicates a start day outside 1..31, a repeat count below 1,
// a negative month offset or an inverted period.
var ErrInvalidInput = errors.New("period: invalid input")

// Period is an inclusive [StartDate, EndDate] window in one calendar's numbering.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Bounds parses both ends in system s and checks start <= end.
func (p Period) Bounds(s calendar.System) (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(p.StartDate, s)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err := calendar.ParseDate(p.EndDate, s)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	if start.Compare(end) > 0 {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("%w: start %s after end %s", ErrInvalidInput, p.StartDate, p.EndDate)
	}
	return start, end, nil
}

// Validate reports whether p is a well formed period in system s.
func (p Period) Validate(s calendar.System) error {
	_, _, err := p.Bounds(s)
	return err
}

// Overlaps reports whether p and other share at least one day. Both periods
// must be numbered in system s.
func (p Period) Overlaps(other Period, s calendar.System) (bool, error) {
	aStart, aEnd, err := p.Bounds(s)
	if err != nil {
		return false, err
	}
	bStart, bEnd, err := other.Bounds(s)
	if err != nil {
		return false, err
	}
	return aStart.Compare(bEnd) <= 0 && bStart.Compare(aEnd) <= 0, nil
}

// ToGregorian converts both ends of p from system s.
func (p Period) ToGregorian(s calendar.System) (calendar.GregorianDate, calendar.GregorianDate, error) {
	start, end, err := p.Bounds(s)
	if err != nil {
		return calendar.GregorianDate{}, calendar.GregorianDate{}, err
	}
	gStart, err := calendar.ToGregorian(start, s)
	if err != nil {
		return calendar.GregorianDate{}, calendar.GregorianDate{}, err
	}
	gEnd, err := calendar.ToGregorian(end, s)
	if err != nil {
		return calendar.GregorianDate{}, calendar.GregorianDate{}, err
	}
	return gStart, gEnd, nil
}

func (p Period) String() string {
	return "[" + p.StartDate + ", " + p.EndDate + "]"
}
