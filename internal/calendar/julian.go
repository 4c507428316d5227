package calendar

// ToJulianDayNumber maps a proleptic Gregorian date to its Julian Day Number.
// Inputs are not validated; an impossible triple yields a meaningless number.
func ToJulianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// FromJulianDayNumber is the inverse of ToJulianDayNumber.
func FromJulianDayNumber(jdn int) GregorianDate {
	j := jdn + 32044
	g := j / 146097
	dg := j % 146097
	c := (dg/36524 + 1) * 3 / 4
	dc := dg - c*36524
	b := dc / 1461
	db := dc % 1461
	a := (db/365 + 1) * 3 / 4
	da := db - a*365
	y := g*400 + c*100 + b*4 + a
	m := (da*5+308)/153 - 2
	d := da - (m+4)*153/5 + 122

	return GregorianDate{
		Year:  y - 4800 + (m+2)/12,
		Month: (m+2)%12 + 1,
		Day:   d + 1,
	}
}
