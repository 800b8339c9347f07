package journal

import "time"

// DayKey is a proleptic Gregorian day ordinal: 0001-01-01 is day 1.
// The zero value means "no day".
type DayKey int

// unixEpochOrdinal is the DayKey of 1970-01-01.
const unixEpochOrdinal = 719163

// DayOf returns the key of the calendar date t falls on in t's location.
func DayOf(t time.Time) DayKey {
	y, m, d := t.Date()
	secs := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	days := secs / 86400
	if secs%86400 != 0 && secs < 0 {
		days--
	}
	return DayKey(days + unixEpochOrdinal)
}

// Time returns midnight UTC of the day.
func (k DayKey) Time() time.Time {
	return time.Unix(int64(k-unixEpochOrdinal)*86400, 0).UTC()
}

// AddDays returns the key n days later.
func (k DayKey) AddDays(n int) DayKey {
	return k + DayKey(n)
}

// String formats the day like an entry's date label.
func (k DayKey) String() string {
	if k == 0 {
		return ""
	}
	return k.Time().Format(DateLayout)
}
