package muster

import (
	"testing"
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
)

func TestResolverPrecedence(t *testing.T) {
	holiday := dateutil.NewDate(2025, 10, 4) // Saturday and a holiday
	saturday := dateutil.NewDate(2025, 10, 11)
	recorded := dateutil.NewDate(2025, 10, 3)
	missing := dateutil.NewDate(2025, 10, 6)
	future := dateutil.NewDate(2025, 10, 20)
	today := dateutil.NewDate(2025, 10, 14)

	ix := BuildIndex([]RawRecord{
		{EmployeeID: "1", Date: holiday.String(), Status: "Present"},
		{EmployeeID: "1", Date: saturday.String(), Status: "Present"},
		{EmployeeID: "1", Date: recorded.String(), Status: "HalfDay"},
		{EmployeeID: "1", Date: future.String(), Status: "OnLeave"},
	})
	r := NewResolver(
		calendar.NewWeekendClassifier(nil),
		calendar.NewHolidayClassifier([]calendar.Holiday{{Date: holiday, Name: "Founders Day"}}),
		ix,
	)

	day := func(d dateutil.Date) calendar.Day {
		return calendar.Day{Number: d.Day, Date: d, IsFuture: d.After(today), IsToday: d == today}
	}

	tests := []struct {
		name      string
		date      dateutil.Date
		wantKind  Kind
		wantCode  string
		wantLabel string
		hasRecord bool
		editable  bool
	}{
		{"holiday beats weekend and record", holiday, KindHoliday, "H", "Founders Day", true, false},
		{"weekend beats record", saturday, KindWeekend, "WD", "Saturday", true, false},
		{"recorded day shows status code", recorded, KindRecorded, "HD", "", true, true},
		{"missing record is not absent", missing, KindMissing, "-", "", false, true},
		{"future beats record", future, KindFuture, "-", "", true, false},
		{"today without record is missing", today, KindMissing, "-", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := r.Resolve(1, day(tt.date))
			if cell.Kind != tt.wantKind || cell.Code != tt.wantCode || cell.Label != tt.wantLabel {
				t.Errorf("Resolve(%v) = (%v, %q, %q), want (%v, %q, %q)",
					tt.date, cell.Kind, cell.Code, cell.Label, tt.wantKind, tt.wantCode, tt.wantLabel)
			}
			if (cell.Record != nil) != tt.hasRecord {
				t.Errorf("Resolve(%v) record attached = %v, want %v", tt.date, cell.Record != nil, tt.hasRecord)
			}
			if cell.Editable() != tt.editable {
				t.Errorf("Resolve(%v).Editable() = %v, want %v", tt.date, cell.Editable(), tt.editable)
			}
		})
	}
}

func TestBuildOctober2025Scenario(t *testing.T) {
	today := dateutil.NewDate(2025, 10, 14)
	m, err := Build(Input{
		Year:      2025,
		Month:     time.October,
		Today:     today,
		Employees: []Employee{{ID: 7, Code: "E007", FirstName: "Asha", LastName: "Rao"}},
		Records:   []RawRecord{{EmployeeID: "7", Date: "2025-10-03", Status: "Present"}},
		Holidays:  []calendar.Holiday{{Date: dateutil.NewDate(2025, 10, 2), Name: "Gandhi Jayanti", Type: calendar.HolidayNational}},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(m.Days) != 31 {
		t.Fatalf("Days = %d, want 31", len(m.Days))
	}
	if len(m.Rows) != 1 || len(m.Rows[0].Cells) != 31 {
		t.Fatalf("grid shape = %d rows, want 1 row of 31 cells", len(m.Rows))
	}

	weekends := map[int]bool{4: true, 5: true, 11: true, 12: true, 18: true, 19: true, 25: true, 26: true}
	for _, cell := range m.Rows[0].Cells {
		d := cell.Date.Day
		var wantCode string
		var wantKind Kind
		switch {
		case d == 2:
			wantCode, wantKind = "H", KindHoliday
		case weekends[d]:
			wantCode, wantKind = "WD", KindWeekend
		case d == 3:
			wantCode, wantKind = "P", KindRecorded
		case d > 14:
			wantCode, wantKind = "-", KindFuture
		default:
			wantCode, wantKind = "-", KindMissing
		}
		if cell.Code != wantCode || cell.Kind != wantKind {
			t.Errorf("Oct %d = (%q, %v), want (%q, %v)", d, cell.Code, cell.Kind, wantCode, wantKind)
		}
	}

	want := Stats{TotalEmployees: 1, Counts: Counts{Present: 1, Holiday: 1}}
	if m.Stats != want {
		t.Errorf("Stats = %+v, want %+v", m.Stats, want)
	}

	// Oct 1, 6-10, 13, 14 are past working days with no record
	if m.Rows[0].Summary.Missing != 8 {
		t.Errorf("Summary.Missing = %d, want 8", m.Rows[0].Summary.Missing)
	}

	if len(m.WeekendConfigs) != 2 {
		t.Errorf("WeekendConfigs = %v, want default Saturday/Sunday", m.WeekendConfigs)
	}
	if len(m.Holidays) != 1 || m.Holidays[0].Name != "Gandhi Jayanti" {
		t.Errorf("Holidays = %v", m.Holidays)
	}
}

func TestBuildStatsBound(t *testing.T) {
	today := dateutil.NewDate(2025, 12, 31)
	employees := []Employee{{ID: 1}, {ID: 2}, {ID: 3}}
	days := dateutil.DaysInMonth(2025, time.November)

	full := make([]RawRecord, 0)
	partial := make([]RawRecord, 0)
	statuses := []string{"Present", "Absent", "HalfDay", "Late", "EarlyLeave", "OnLeave"}
	d := dateutil.FirstOfMonth(2025, time.November)
	for i := 0; i < days; i++ {
		for _, e := range employees {
			row := RawRecord{EmployeeID: IDFromInt(e.ID), Date: d.String(), Status: statuses[(i+int(e.ID))%len(statuses)]}
			full = append(full, row)
			if i%2 == 0 {
				partial = append(partial, row)
			}
		}
		d = d.AddDays(1)
	}

	holidays := []calendar.Holiday{{Date: dateutil.NewDate(2025, 11, 4), Name: "Unity Day"}}
	// Friday + Saturday weekend
	weekend := []calendar.WeekendConfig{{Weekday: 5, Label: "Friday"}, {Weekday: 6, Label: "Saturday"}}

	build := func(rows []RawRecord) *Muster {
		m, err := Build(Input{
			Year: 2025, Month: time.November, Today: today,
			Employees: employees, Records: rows, Holidays: holidays, Weekend: weekend,
		})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		return m
	}

	fullMuster := build(full)
	partialMuster := build(partial)

	// November 2025 has 4 Fridays and 5 Saturdays; Nov 4 is a Tuesday
	weekendDays := 9
	workingDays := days - weekendDays - 1
	capacity := len(employees) * days

	fs := fullMuster.Stats
	if got := fs.Attendance() + fs.Holiday; got > capacity {
		t.Errorf("full: counted %d cells, capacity %d", got, capacity)
	}
	if fs.Attendance() != len(employees)*workingDays {
		t.Errorf("full: attendance = %d, want %d", fs.Attendance(), len(employees)*workingDays)
	}
	if fs.Holiday != len(employees) {
		t.Errorf("full: holiday cells = %d, want %d", fs.Holiday, len(employees))
	}
	if got := fs.Attendance() + fs.Holiday + len(employees)*weekendDays; got != capacity {
		t.Errorf("full: counted + weekend cells = %d, want %d", got, capacity)
	}

	ps := partialMuster.Stats
	if ps.Attendance() >= fs.Attendance() {
		t.Errorf("partial attendance %d should be below full %d", ps.Attendance(), fs.Attendance())
	}
	missing := 0
	for _, row := range partialMuster.Rows {
		missing += row.Summary.Missing
	}
	if ps.Attendance()+missing != fs.Attendance() {
		t.Errorf("partial attendance %d + missing %d != %d", ps.Attendance(), missing, fs.Attendance())
	}
}

func TestBuildFilterAndDuplicateEmployees(t *testing.T) {
	m, err := Build(Input{
		Year:  2025,
		Month: time.October,
		Today: dateutil.NewDate(2025, 10, 31),
		Employees: []Employee{
			{ID: 1, Department: "Engineering"},
			{ID: 2, Department: "Operations"},
			{ID: 1, Department: "Engineering"},
			{ID: 3, Department: "Engineering"},
		},
		Filter: Filter{Department: "Engineering"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Stats.TotalEmployees != 2 {
		t.Errorf("TotalEmployees = %d, want 2", m.Stats.TotalEmployees)
	}
	if len(m.Rows) != 2 || m.Rows[0].Employee.ID != 1 || m.Rows[1].Employee.ID != 3 {
		t.Errorf("rows = %v, want employees 1 and 3", m.Rows)
	}
	if len(m.Cells()) != 2 {
		t.Errorf("Cells() rows = %d, want 2", len(m.Cells()))
	}
}

func TestBuildStrayRecordOnWeekendNotCounted(t *testing.T) {
	m, err := Build(Input{
		Year:      2025,
		Month:     time.October,
		Today:     dateutil.NewDate(2025, 10, 31),
		Employees: []Employee{{ID: 1}},
		Records: []RawRecord{
			{EmployeeID: "1", Date: "2025-10-04", Status: "Present"}, // Saturday
			{EmployeeID: "1", Date: "2025-10-02", Status: "Absent"},  // holiday
		},
		Holidays: []calendar.Holiday{{Date: dateutil.NewDate(2025, 10, 2), Name: "Holiday"}},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Stats.Present != 0 || m.Stats.Absent != 0 {
		t.Errorf("stray records counted: %+v", m.Stats)
	}
	if m.Stats.Holiday != 1 {
		t.Errorf("Holiday = %d, want 1", m.Stats.Holiday)
	}
}

func TestBuildRejectsInvalidMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
	}{
		{"month zero", 2025, 0},
		{"month thirteen", 2025, 13},
		{"year zero", 0, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(Input{Year: tt.year, Month: tt.month})
			if !IsValidation(err) {
				t.Errorf("Build(%d, %d) error = %v, want ValidationError", tt.year, tt.month, err)
			}
		})
	}
}

func TestBuildDiagnostics(t *testing.T) {
	m, err := Build(Input{
		Year:      2025,
		Month:     time.October,
		Today:     dateutil.NewDate(2025, 10, 31),
		Employees: []Employee{{ID: 1}},
		Records: []RawRecord{
			{EmployeeID: "1", Date: "2025-10-06", Status: "Absent"},
			{EmployeeID: "1", Date: "2025-10-06", Status: "Present"},
			{EmployeeID: "x", Date: "2025-10-07", Status: "Present"},
		},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Diagnostics.Duplicates != 1 || len(m.Diagnostics.Rejected) != 1 {
		t.Errorf("Diagnostics = %+v, want 1 duplicate and 1 rejection", m.Diagnostics)
	}
	if m.Stats.Present != 1 || m.Stats.Absent != 0 {
		t.Errorf("Stats = %+v, want the later duplicate counted", m.Stats)
	}
}
