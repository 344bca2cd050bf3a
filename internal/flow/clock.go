package flow

import "time"

var timeNow = time.Now

// Now is the reference instant for derived views. Tests pin it with SetTimeNowFn.
func Now() time.Time {
	return timeNow()
}

func SetTimeNowFn(f func() time.Time) {
	timeNow = f
}

func RestoreTimeNow() {
	timeNow = time.Now
}

// CurrentMonth formats now as YYYY-MM.
func CurrentMonth(now time.Time) string {
	return now.Format(MonthLayout)
}

// calendarDay is midnight UTC of now's calendar date in now's own location, which is how
// stored dates parse.
func calendarDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
