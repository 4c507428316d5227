package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a year/month/day triple whose meaning depends on the System it is
// paired with. Stored budget dates use this shape.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the zero-padded YYYY-MM-DD form used for persisted dates.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Validate checks d against the month lengths of system s.
func (d Date) Validate(s System) error {
	switch s {
	case Gregorian:
		return GregorianDate(d).Validate()
	case Persian:
		return PersianDate(d).Validate()
	}
	return s.Validate()
}

// Compare orders two dates of the same system: -1, 0 or 1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// ParseDate parses a YYYY-MM-DD string and validates it in system s.
func ParseDate(raw string, s System) (Date, error) {
	d, err := parseTriple(raw)
	if err != nil {
		return Date{}, err
	}
	if err := d.Validate(s); err != nil {
		return Date{}, err
	}
	return d, nil
}

func parseTriple(raw string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, raw)
	}
	var out [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, raw)
		}
		out[i] = v
	}
	return Date{Year: out[0], Month: out[1], Day: out[2]}, nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
