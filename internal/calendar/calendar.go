package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/username/attendance-muster/pkg/dateutil"
)

// Day describes one day of a month as shown in a muster header
type Day struct {
	Number      int
	Weekday     time.Weekday
	WeekdayName string
	Date        dateutil.Date
	IsFuture    bool // strictly after today
	IsToday     bool
}

// MonthDays returns the ordered days of the month relative to today.
// A month outside 1..12 is a caller bug and panics.
func MonthDays(year int, month time.Month, today dateutil.Date) []Day {
	if month < time.January || month > time.December {
		panic(fmt.Sprintf("calendar: month %d out of range", int(month)))
	}

	daysInMonth := dateutil.DaysInMonth(year, month)
	days := make([]Day, 0, daysInMonth)

	for n := 1; n <= daysInMonth; n++ {
		date := dateutil.Date{Year: year, Month: month, Day: n}
		weekday := date.Weekday()
		days = append(days, Day{
			Number:      n,
			Weekday:     weekday,
			WeekdayName: weekday.String(),
			Date:        date,
			IsFuture:    date.After(today),
			IsToday:     date == today,
		})
	}

	return days
}

// HolidaySource provides holiday records for a date range (inclusive)
type HolidaySource interface {
	Holidays(ctx context.Context, from, to dateutil.Date) ([]Holiday, error)
}
