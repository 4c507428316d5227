package calendar

import "fmt"

const (
	// PersianEpochJDN is the Julian Day Number of 1 Farvardin, year 1.
	PersianEpochJDN = 1948320

	// persianCycleDays is the length of one 33-year cycle (8 leap years).
	persianCycleDays = 33*365 + 8
)

// PersianDate is a date in the rule-based Persian calendar. Years start at 1.
type PersianDate struct {
	Year  int
	Month int
	Day   int
}

// Validate checks year >= 1, the month range and the day against the month length.
func (p PersianDate) Validate() error {
	if p.Year < 1 {
		return fmt.Errorf("%w: persian year %d precedes the epoch", ErrInvalidDate, p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: persian month %d", ErrInvalidDate, p.Month)
	}
	if p.Day < 1 || p.Day > PersianMonthLength(p.Year, p.Month) {
		return fmt.Errorf("%w: persian %04d-%02d has no day %d", ErrInvalidDate, p.Year, p.Month, p.Day)
	}
	return nil
}

func (p PersianDate) String() string {
	return Date(p).String()
}

// IsPersianLeapYear reports whether year is leap in the 33-year cycle
// approximation: year mod 33 in {1,5,9,13,17,22,26,30}. It does not follow
// the astronomical calendar.
func IsPersianLeapYear(year int) bool {
	r := year % 33
	if r < 0 {
		r += 33
	}
	switch r {
	case 1, 5, 9, 13, 17, 22, 26, 30:
		return true
	}
	return false
}

// PersianYearLength returns 366 for leap years and 365 otherwise.
func PersianYearLength(year int) int {
	if IsPersianLeapYear(year) {
		return 366
	}
	return 365
}

// PersianMonthLength returns 31 for months 1-6, 30 for months 7-11 and
// 29 or 30 for Esfand. month must be 1..12.
func PersianMonthLength(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	case IsPersianLeapYear(year):
		return 30
	}
	return 29
}

// GregorianToPersian converts g through its Julian Day Number. The epoch day
// counts as day zero, so a remainder equal to a full year length already
// belongs to the following year; the last day of a 366-day year stays in
// that year.
func GregorianToPersian(g GregorianDate) (PersianDate, error) {
	if err := g.Validate(); err != nil {
		return PersianDate{}, err
	}
	days := ToJulianDayNumber(g.Year, g.Month, g.Day) - PersianEpochJDN
	if days < 0 {
		return PersianDate{}, fmt.Errorf("%w: %s precedes the persian epoch", ErrInvalidDate, g)
	}

	cycles := days / persianCycleDays
	year := 1 + 33*cycles
	days -= cycles * persianCycleDays
	for days >= PersianYearLength(year) {
		days -= PersianYearLength(year)
		year++
	}

	month := 1
	for month < 12 && days >= PersianMonthLength(year, month) {
		days -= PersianMonthLength(year, month)
		month++
	}
	return PersianDate{Year: year, Month: month, Day: days + 1}, nil
}

// PersianToGregorian is the exact inverse of GregorianToPersian.
func PersianToGregorian(p PersianDate) (GregorianDate, error) {
	if err := p.Validate(); err != nil {
		return GregorianDate{}, err
	}
	jdn := PersianEpochJDN + persianDaysBeforeYear(p.Year) + persianDaysBeforeMonth(p.Month) + p.Day - 1
	return FromJulianDayNumber(jdn), nil
}

func persianDaysBeforeYear(year int) int {
	cycles := (year - 1) / 33
	days := cycles * persianCycleDays
	for y := 1 + 33*cycles; y < year; y++ {
		days += PersianYearLength(y)
	}
	return days
}

func persianDaysBeforeMonth(month int) int {
	if month <= 7 {
		return 31 * (month - 1)
	}
	return 6*31 + 30*(month-7)
}
