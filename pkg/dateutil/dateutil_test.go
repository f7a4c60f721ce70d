package dateutil

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"October", 2025, time.October, 31},
		{"November", 2025, time.November, 30},
		{"February common year", 2025, time.February, 28},
		{"February leap year", 2024, time.February, 29},
		{"February century non-leap", 1900, time.February, 28},
		{"February 400-year leap", 2000, time.February, 29},
		{"December", 2025, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month); got != tt.want {
				t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestDateWeekday(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want time.Weekday
	}{
		{"2025-10-02 is Thursday", NewDate(2025, 10, 2), time.Thursday},
		{"2025-10-04 is Saturday", NewDate(2025, 10, 4), time.Saturday},
		{"2025-10-05 is Sunday", NewDate(2025, 10, 5), time.Sunday},
		{"2024-02-29 is Thursday", NewDate(2024, 2, 29), time.Thursday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.Weekday(); got != tt.want {
				t.Errorf("%v.Weekday() = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateOfKeepsLocalComponents(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC
	loc := time.FixedZone("UTC-5", -5*3600)
	input := time.Date(2025, 10, 2, 23, 30, 0, 0, loc)

	got := DateOf(input)
	want := Date{Year: 2025, Month: time.October, Day: 2}

	if got != want {
		t.Errorf("DateOf(%v) = %v, want %v", input, got, want)
	}
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2025, 10, 2)
	b := NewDate(2025, 10, 3)
	c := NewDate(2026, 1, 1)

	if !a.Before(b) || b.Before(a) {
		t.Errorf("expected %v before %v", a, b)
	}
	if !c.After(b) {
		t.Errorf("expected %v after %v", c, b)
	}
	if a.Compare(NewDate(2025, 10, 2)) != 0 {
		t.Errorf("expected %v equal to itself", a)
	}
	if got := NewDate(2025, 12, 31).AddDays(1); got != NewDate(2026, 1, 1) {
		t.Errorf("AddDays across year = %v, want 2026-01-01", got)
	}
	if got := NewDate(2025, 2, 30); got != NewDate(2025, 3, 2) {
		t.Errorf("NewDate normalization = %v, want 2025-03-02", got)
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name  string
		input Date
		want  bool
	}{
		{"Saturday is weekend", NewDate(2025, 1, 18), true},
		{"Sunday is weekend", NewDate(2025, 1, 19), true},
		{"Monday is not weekend", NewDate(2025, 1, 13), false},
		{"Friday is not weekend", NewDate(2025, 1, 17), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.input); got != tt.want {
				t.Errorf("IsWeekend(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got := IsWeekday(tt.input); got == tt.want {
				t.Errorf("IsWeekday(%v) = %v, want %v", tt.input, got, !tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"ISO format YYYY-MM-DD", "2025-01-15", NewDate(2025, 1, 15), false},
		{"Russian format DD.MM.YYYY", "15.01.2025", NewDate(2025, 1, 15), false},
		{"ISO with time", "2025-01-15T10:30:00", NewDate(2025, 1, 15), false},
		{"Late evening with negative offset", "2025-10-02T23:30:00-05:00", NewDate(2025, 10, 2), false},
		{"Early morning with positive offset", "2025-10-03T00:30:00+03:00", NewDate(2025, 10, 3), false},
		{"Surrounding spaces", " 2025-10-03 ", NewDate(2025, 10, 3), false},
		{"Garbage", "yesterday", Date{}, true},
		{"Empty", "", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && result != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestTodayAt(t *testing.T) {
	now := time.Date(2025, 10, 3, 2, 0, 0, 0, time.UTC)

	if got := TodayAt(now, time.UTC); got != NewDate(2025, 10, 3) {
		t.Errorf("TodayAt(UTC) = %v, want 2025-10-03", got)
	}

	west := time.FixedZone("UTC-5", -5*3600)
	if got := TodayAt(now, west); got != NewDate(2025, 10, 2) {
		t.Errorf("TodayAt(UTC-5) = %v, want 2025-10-02", got)
	}
}

func TestDateTextRoundTrip(t *testing.T) {
	d := NewDate(2025, 10, 3)
	b, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(b) != "2025-10-03" {
		t.Errorf("MarshalText() = %s, want 2025-10-03", b)
	}

	var back Date
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if back != d {
		t.Errorf("UnmarshalText() = %v, want %v", back, d)
	}
}
