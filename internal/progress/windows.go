package progress

import "time"

// DayWindow returns the inclusive window covering the local calendar
// day of the given date: 00:00:00.000 through 23:59:59.999.
func DayWindow(date time.Time) (from, to time.Time) {
	year, month, day := date.Date()
	from = time.Date(year, month, day, 0, 0, 0, 0, date.Location())
	// not from.Add(24h): DST transition days are not 24 hours long
	to = time.Date(year, month, day, 23, 59, 59, 999000000, date.Location())
	return from, to
}

// WeekWindow returns the window from the most recent Sunday midnight
// through the given moment.
func WeekWindow(now time.Time) (from, to time.Time) {
	daysSinceSunday := int(now.Weekday())
	sunday := now.AddDate(0, 0, -daysSinceSunday)
	from = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, now.Location())
	return from, now
}

// MonthWindow returns the window covering the given month, first of
// the month through its last instant. Zero year or month default to
// the current one.
func MonthWindow(now time.Time, year int, month time.Month) (from, to time.Time) {
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	from = time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	to = from.AddDate(0, 1, 0).Add(-time.Millisecond)
	return from, to
}
