package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestToJulianDayNumberKnownValues(t *testing.T) {
	cases := []struct {
		date GregorianDate
		jdn  int
	}{
		{GregorianDate{2000, 1, 1}, 2451545},
		{GregorianDate{2024, 3, 20}, 2460390},
		{GregorianDate{1970, 1, 1}, 2440588},
		{GregorianDate{622, 3, 21}, PersianEpochJDN},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.jdn, ToJulianDayNumber(tc.date.Year, tc.date.Month, tc.date.Day), tc.date.String())
		assert.Equal(t, tc.date, FromJulianDayNumber(tc.jdn))
	}
}

func TestJulianDayNumberMatchesTimePackage(t *testing.T) {
	day := time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2200, 12, 31, 0, 0, 0, 0, time.UTC)
	jdn := ToJulianDayNumber(1800, 1, 1)
	for !day.After(end) {
		want := GregorianFromTime(day)
		got := FromJulianDayNumber(jdn)
		if got != want {
			t.Fatalf("jdn %d: expected %s got %s", jdn, want, got)
		}
		if back := ToJulianDayNumber(got.Year, got.Month, got.Day); back != jdn {
			t.Fatalf("%s: expected jdn %d got %d", got, jdn, back)
		}
		day = day.AddDate(0, 0, 1)
		jdn++
	}
}

func TestPersianEpochIsFirstFarvardin(t *testing.T) {
	g := FromJulianDayNumber(PersianEpochJDN)
	p, err := GregorianToPersian(g)
	require.NoError(t, err)
	require.Equal(t, PersianDate{Year: 1, Month: 1, Day: 1}, p)

	back, err := PersianToGregorian(PersianDate{Year: 1, Month: 1, Day: 1})
	require.NoError(t, err)
	require.Equal(t, g, back)
}

func TestGregorianToPersianKnownDates(t *testing.T) {
	cases := []struct {
		g GregorianDate
		p PersianDate
	}{
		{GregorianDate{2024, 3, 19}, PersianDate{1402, 12, 29}},
		{GregorianDate{2024, 3, 20}, PersianDate{1403, 1, 1}},
		{GregorianDate{2024, 9, 22}, PersianDate{1403, 7, 1}},
		{GregorianDate{2025, 3, 20}, PersianDate{1403, 12, 30}},
		{GregorianDate{2025, 3, 21}, PersianDate{1404, 1, 1}},
	}
	for _, tc := range cases {
		p, err := GregorianToPersian(tc.g)
		require.NoError(t, err, tc.g.String())
		assert.Equal(t, tc.p, p, tc.g.String())

		g, err := PersianToGregorian(tc.p)
		require.NoError(t, err, tc.p.String())
		assert.Equal(t, tc.g, g, tc.p.String())
	}
}

func TestYearBoundaryDays(t *testing.T) {
	// 1403 is leap: its 366th day must stay in 1403, the next day opens 1404.
	require.True(t, IsPersianLeapYear(1403))
	last := PersianDate{Year: 1403, Month: 12, Day: 30}
	g, err := PersianToGregorian(last)
	require.NoError(t, err)
	p, err := GregorianToPersian(g)
	require.NoError(t, err)
	require.Equal(t, last, p)

	next := FromJulianDayNumber(ToJulianDayNumber(g.Year, g.Month, g.Day) + 1)
	p, err = GregorianToPersian(next)
	require.NoError(t, err)
	require.Equal(t, PersianDate{Year: 1404, Month: 1, Day: 1}, p)

	// 1404 is common: 29 Esfand is the last day.
	require.False(t, IsPersianLeapYear(1404))
	g, err = PersianToGregorian(PersianDate{Year: 1404, Month: 12, Day: 29})
	require.NoError(t, err)
	p, err = GregorianToPersian(FromJulianDayNumber(ToJulianDayNumber(g.Year, g.Month, g.Day) + 1))
	require.NoError(t, err)
	require.Equal(t, PersianDate{Year: 1405, Month: 1, Day: 1}, p)
}

func TestGregorianRoundTrip(t *testing.T) {
	day := time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2200, 12, 31, 0, 0, 0, 0, time.UTC)
	for !day.After(end) {
		g := GregorianFromTime(day)
		p, err := GregorianToPersian(g)
		if err != nil {
			t.Fatalf("%s: %v", g, err)
		}
		if p.Day > PersianMonthLength(p.Year, p.Month) {
			t.Fatalf("%s: day exceeds month length in %s", g, p)
		}
		back, err := PersianToGregorian(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if back != g {
			t.Fatalf("round trip %s -> %s -> %s", g, p, back)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestPersianRoundTrip(t *testing.T) {
	for year := 1179; year <= 1580; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= PersianMonthLength(year, month); day++ {
				p := PersianDate{Year: year, Month: month, Day: day}
				g, err := PersianToGregorian(p)
				if err != nil {
					t.Fatalf("%s: %v", p, err)
				}
				if g.Day > GregorianMonthLength(g.Year, g.Month) {
					t.Fatalf("%s: invalid gregorian %s", p, g)
				}
				back, err := GregorianToPersian(g)
				if err != nil {
					t.Fatalf("%s: %v", g, err)
				}
				if back != p {
					t.Fatalf("round trip %s -> %s -> %s", p, g, back)
				}
			}
		}
	}
}

func TestIsPersianLeapYear(t *testing.T) {
	leap := map[int]bool{1: true, 5: true, 9: true, 13: true, 17: true, 22: true, 26: true, 30: true}
	for year := 1; year <= 400; year++ {
		assert.Equal(t, leap[year%33], IsPersianLeapYear(year), "year %d", year)
	}
	assert.True(t, IsPersianLeapYear(1))
	assert.False(t, IsPersianLeapYear(2))
	assert.True(t, IsPersianLeapYear(34))
	assert.Equal(t, 366, PersianYearLength(34))
	assert.Equal(t, 365, PersianYearLength(33))
}

func TestGregorianLeapYear(t *testing.T) {
	assert.True(t, IsGregorianLeapYear(2024))
	assert.True(t, IsGregorianLeapYear(2000))
	assert.False(t, IsGregorianLeapYear(1900))
	assert.False(t, IsGregorianLeapYear(2023))
	assert.Equal(t, 29, GregorianMonthLength(2024, 2))
	assert.Equal(t, 28, GregorianMonthLength(2100, 2))
	assert.Equal(t, 30, GregorianMonthLength(2024, 4))
}

func TestConversionRejectsInvalidDates(t *testing.T) {
	_, err := GregorianToPersian(GregorianDate{2023, 2, 29})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = GregorianToPersian(GregorianDate{2024, 13, 1})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = GregorianToPersian(GregorianDate{622, 3, 20})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = PersianToGregorian(PersianDate{0, 1, 1})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = PersianToGregorian(PersianDate{1402, 12, 30})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = PersianToGregorian(PersianDate{1403, 7, 31})
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = PersianToGregorian(PersianDate{1403, 12, 30})
	require.NoError(t, err)
}

func TestParseSystem(t *testing.T) {
	s, err := ParseSystem(" persian ")
	require.NoError(t, err)
	require.Equal(t, Persian, s)

	s, err = ParseSystem("GREGORIAN")
	require.NoError(t, err)
	require.Equal(t, Gregorian, s)

	_, err = ParseSystem("HIJRI")
	require.ErrorIs(t, err, ErrUnsupportedCalendarSystem)
	require.ErrorIs(t, System("HIJRI").Validate(), ErrUnsupportedCalendarSystem)

	_, err = MonthLength(System("HIJRI"), 1400, 1)
	require.ErrorIs(t, err, ErrUnsupportedCalendarSystem)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1403-12-30", Persian)
	require.NoError(t, err)
	require.Equal(t, Date{1403, 12, 30}, d)
	require.Equal(t, "1403-12-30", d.String())

	_, err = ParseDate("1402-12-30", Persian)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("2024-02-30", Gregorian)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("2024-03", Gregorian)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("2024-aa-01", Gregorian)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDispatchHelpers(t *testing.T) {
	g, err := ToGregorian(Date{1403, 1, 1}, Persian)
	require.NoError(t, err)
	require.Equal(t, GregorianDate{2024, 3, 20}, g)

	d, err := FromGregorian(g, Persian)
	require.NoError(t, err)
	require.Equal(t, Date{1403, 1, 1}, d)

	d, err = FromGregorian(g, Gregorian)
	require.NoError(t, err)
	require.Equal(t, Date{2024, 3, 20}, d)

	_, err = ToGregorian(Date{2024, 3, 20}, System("JULIAN"))
	require.ErrorIs(t, err, ErrUnsupportedCalendarSystem)

	require.Equal(t, -1, Date{1403, 1, 1}.Compare(Date{1403, 1, 2}))
	require.Equal(t, 1, Date{1404, 1, 1}.Compare(Date{1403, 12, 30}))
	require.Equal(t, 0, Date{1403, 1, 1}.Compare(Date{1403, 1, 1}))
}

func TestFormatDate(t *testing.T) {
	g := GregorianDate{2024, 3, 20}
	out, err := FormatDate(g, Persian)
	require.NoError(t, err)
	require.Equal(t, "1403/01/01", out)

	out, err = FormatDate(g, Gregorian)
	require.NoError(t, err)
	require.Equal(t, "2024/03/20", out)

	_, err = FormatDate(g, System("X"))
	require.ErrorIs(t, err, ErrUnsupportedCalendarSystem)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Farvardin", MonthName(1, Persian, language.English))
	assert.Equal(t, "اسفند", MonthName(12, Persian, language.Persian))
	assert.Equal(t, "March", MonthName(3, Gregorian, language.English))
	assert.Equal(t, "مارس", MonthName(3, Gregorian, language.Persian))
	assert.Equal(t, "", MonthName(0, Persian, language.English))
	assert.Equal(t, "", MonthName(13, Gregorian, language.English))

	assert.Equal(t, "Saturday", WeekdayName(1, language.English))
	assert.Equal(t, "جمعه", WeekdayName(7, language.Persian))
	assert.Equal(t, "", WeekdayName(8, language.English))

	// 2024-03-20 was a Wednesday.
	idx := PersianWeekday(GregorianDate{2024, 3, 20})
	assert.Equal(t, 5, idx)
	assert.Equal(t, "Wednesday", WeekdayName(idx, language.English))
}

func TestConversionIsDeterministic(t *testing.T) {
	g := GregorianDate{2026, 10, 16}
	first, err := GregorianToPersian(g)
	require.NoError(t, err)
	second, err := GregorianToPersian(g)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
