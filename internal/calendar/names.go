package calendar

import (
	"fmt"

	"golang.org/x/text/language"
)

var (
	persianMonthNamesFa = [12]string{
		"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
		"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
	}
	persianMonthNamesEn = [12]string{
		"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
		"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
	}
	gregorianMonthNamesFa = [12]string{
		"ژانویه", "فوریه", "مارس", "آوریل", "مه", "ژوئن",
		"ژوئیه", "اوت", "سپتامبر", "اکتبر", "نوامبر", "دسامبر",
	}
	gregorianMonthNamesEn = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}

	// Weeks start on Saturday.
	weekdayNamesFa = [7]string{
		"شنبه", "یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنجشنبه", "جمعه",
	}
	weekdayNamesEn = [7]string{
		"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
	}
)

func isFarsi(lang language.Tag) bool {
	base, _ := lang.Base()
	return base.String() == "fa"
}

// MonthName looks up the name of month (1..12) in system s. Farsi names are
// returned for tags whose base language is fa, English otherwise. An out of
// range month or unknown system yields "".
func MonthName(month int, s System, lang language.Tag) string {
	if month < 1 || month > 12 {
		return ""
	}
	fa := isFarsi(lang)
	switch s {
	case Persian:
		if fa {
			return persianMonthNamesFa[month-1]
		}
		return persianMonthNamesEn[month-1]
	case Gregorian:
		if fa {
			return gregorianMonthNamesFa[month-1]
		}
		return gregorianMonthNamesEn[month-1]
	}
	return ""
}

// WeekdayName looks up a Saturday-first weekday index (1 = Saturday,
// 7 = Friday). Out of range indexes yield "".
func WeekdayName(index int, lang language.Tag) string {
	if index < 1 || index > 7 {
		return ""
	}
	if isFarsi(lang) {
		return weekdayNamesFa[index-1]
	}
	return weekdayNamesEn[index-1]
}

// PersianWeekday returns the Saturday-first weekday index of g.
func PersianWeekday(g GregorianDate) int {
	// JDN mod 7 is 0 on Mondays.
	return (ToJulianDayNumber(g.Year, g.Month, g.Day)+2)%7 + 1
}

// FormatDate renders g as YYYY/MM/DD in system s, converting to Persian first
// when requested.
func FormatDate(g GregorianDate, s System) (string, error) {
	d, err := FromGregorian(g, s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%02d/%02d", d.Year, d.Month, d.Day), nil
}
