package period

import (
	"fmt"

	"github.com/hesab/hesab/internal/calendar"
)

// CurrentPeriodStart returns the start of the period containing today.
// startDay is clamped to the length of the month it lands in; when today is
// before the (clamped) start day of its month, the period began in the
// previous month.
func CurrentPeriodStart(startDay int, s calendar.System, today calendar.GregorianDate) (string, error) {
	start, _, err := currentBounds(startDay, s, today)
	if err != nil {
		return "", err
	}
	return start.String(), nil
}

// CurrentPeriodEnd returns the day before the next period starts, so that
// consecutive periods are contiguous and never overlap.
func CurrentPeriodEnd(startDay int, s calendar.System, today calendar.GregorianDate) (string, error) {
	_, end, err := currentBounds(startDay, s, today)
	if err != nil {
		return "", err
	}
	return end.String(), nil
}

// CurrentPeriod combines CurrentPeriodStart and CurrentPeriodEnd.
func CurrentPeriod(startDay int, s calendar.System, today calendar.GregorianDate) (Period, error) {
	start, end, err := currentBounds(startDay, s, today)
	if err != nil {
		return Period{}, err
	}
	return Period{StartDate: start.String(), EndDate: end.String()}, nil
}

func currentBounds(startDay int, s calendar.System, today calendar.GregorianDate) (calendar.Date, calendar.Date, error) {
	if startDay < 1 || startDay > 31 {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("%w: start day %d outside 1..31", ErrInvalidInput, startDay)
	}
	local, err := calendar.FromGregorian(today, s)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}

	year, month := local.Year, local.Month
	thisStart, err := clampedDay(s, year, month, startDay)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	// Compared with the clamped start, so a period never skips the last day
	// of a month shorter than startDay.
	if local.Day < thisStart {
		if year, month, err = shiftMonth(s, year, month, -1); err != nil {
			return calendar.Date{}, calendar.Date{}, err
		}
	}
	startAt, err := clampedDay(s, year, month, startDay)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	start := calendar.Date{Year: year, Month: month, Day: startAt}

	nextYear, nextMonth, err := shiftMonth(s, year, month, 1)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	nextStart, err := clampedDay(s, nextYear, nextMonth, startDay)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	var end calendar.Date
	if nextStart > 1 {
		end = calendar.Date{Year: nextYear, Month: nextMonth, Day: nextStart - 1}
	} else {
		last, err := calendar.MonthLength(s, year, month)
		if err != nil {
			return calendar.Date{}, calendar.Date{}, err
		}
		end = calendar.Date{Year: year, Month: month, Day: last}
	}
	return start, end, nil
}

// RollForwardByMonths adds count whole months to date in system s. The day
// is clamped to the target month's length.
func RollForwardByMonths(date calendar.Date, s calendar.System, count int) (string, error) {
	if count < 0 {
		return "", fmt.Errorf("%w: negative month count %d", ErrInvalidInput, count)
	}
	if err := date.Validate(s); err != nil {
		return "", err
	}
	year, month, err := shiftMonth(s, date.Year, date.Month, count)
	if err != nil {
		return "", err
	}
	day, err := clampedDay(s, year, month, date.Day)
	if err != nil {
		return "", err
	}
	return calendar.Date{Year: year, Month: month, Day: day}.String(), nil
}

// GenerateRepeatedPeriods returns the repeatCount-1 periods that follow base.
// Period i rolls the base start and the base end forward by i months each,
// always from the base dates so clamping never accumulates.
func GenerateRepeatedPeriods(base Period, repeatCount int, s calendar.System) ([]Period, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if repeatCount < 1 {
		return nil, fmt.Errorf("%w: repeat count %d", ErrInvalidInput, repeatCount)
	}
	start, end, err := base.Bounds(s)
	if err != nil {
		return nil, err
	}
	out := make([]Period, 0, repeatCount-1)
	for i := 1; i < repeatCount; i++ {
		nextStart, err := RollForwardByMonths(start, s, i)
		if err != nil {
			return nil, err
		}
		nextEnd, err := RollForwardByMonths(end, s, i)
		if err != nil {
			return nil, err
		}
		out = append(out, Period{StartDate: nextStart, EndDate: nextEnd})
	}
	return out, nil
}

func shiftMonth(s calendar.System, year, month, delta int) (int, int, error) {
	idx := year*12 + (month - 1) + delta
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	if s == calendar.Persian && y < 1 {
		return 0, 0, fmt.Errorf("%w: persian year %d precedes the epoch", calendar.ErrInvalidDate, y)
	}
	return y, m + 1, nil
}

func clampedDay(s calendar.System, year, month, day int) (int, error) {
	last, err := calendar.MonthLength(s, year, month)
	if err != nil {
		return 0, err
	}
	if day > last {
		return last, nil
	}
	return day, nil
}
