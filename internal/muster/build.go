package muster

import (
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
)

// Input is everything a muster build needs, already fetched
type Input struct {
	Year      int
	Month     time.Month
	Today     dateutil.Date
	Employees []Employee
	Records   []RawRecord
	Holidays  []calendar.Holiday
	Weekend   []calendar.WeekendConfig
	Filter    Filter
}

// Row is one employee's line of the muster
type Row struct {
	Employee Employee   `json:"employee"`
	Cells    []Cell     `json:"cells"`
	Summary  RowSummary `json:"summary"`
}

// Diagnostics surfaces input-quality findings of the record index
type Diagnostics struct {
	Rejected   []Rejection `json:"rejected,omitempty"`
	Duplicates int         `json:"duplicates"`
}

// Muster is the immutable result of a build
type Muster struct {
	Year           int                      `json:"year"`
	Month          time.Month               `json:"month"`
	Days           []calendar.Day           `json:"days"`
	Rows           []Row                    `json:"rows"`
	Stats          Stats                    `json:"stats"`
	Holidays       []calendar.Holiday       `json:"holidays"`
	WeekendConfigs []calendar.WeekendConfig `json:"weekend_configs"`
	Diagnostics    Diagnostics              `json:"diagnostics"`
}

// Cells returns the employee × day grid
func (m *Muster) Cells() [][]Cell {
	grid := make([][]Cell, len(m.Rows))
	for i, row := range m.Rows {
		grid[i] = row.Cells
	}
	return grid
}

// ValidateMonth checks year and month of a muster request
func ValidateMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return validationErr("month", "%d is outside 1..12", int(month))
	}
	if year < 1 || year > 9999 {
		return validationErr("year", "%d is outside 1..9999", year)
	}
	return nil
}

// Build runs the muster pipeline: enumerate days, classify, index, resolve, aggregate.
// It performs no I/O and does not mutate its input.
func Build(in Input) (*Muster, error) {
	if err := ValidateMonth(in.Year, in.Month); err != nil {
		return nil, err
	}

	days := calendar.MonthDays(in.Year, in.Month, in.Today)
	from := dateutil.FirstOfMonth(in.Year, in.Month)
	to := dateutil.LastOfMonth(in.Year, in.Month)

	holidays := calendar.InRange(in.Holidays, from, to)
	weekend := in.Weekend
	if len(weekend) == 0 {
		weekend = calendar.DefaultWeekend
	}

	index := BuildIndex(in.Records)
	resolver := NewResolver(
		calendar.NewWeekendClassifier(weekend),
		calendar.NewHolidayClassifier(holidays),
		index,
	)

	employees := selectEmployees(in.Employees, in.Filter)
	rows := make([]Row, 0, len(employees))
	for _, emp := range employees {
		cells := make([]Cell, 0, len(days))
		for _, day := range days {
			cells = append(cells, resolver.Resolve(emp.ID, day))
		}
		rows = append(rows, Row{
			Employee: emp,
			Cells:    cells,
			Summary:  summarize(cells),
		})
	}

	return &Muster{
		Year:           in.Year,
		Month:          in.Month,
		Days:           days,
		Rows:           rows,
		Stats:          Aggregate(rows),
		Holidays:       holidays,
		WeekendConfigs: append([]calendar.WeekendConfig(nil), weekend...),
		Diagnostics: Diagnostics{
			Rejected:   index.Rejected(),
			Duplicates: index.Duplicates(),
		},
	}, nil
}

// selectEmployees applies the filter and drops repeated ids, keeping input order
func selectEmployees(employees []Employee, filter Filter) []Employee {
	out := make([]Employee, 0, len(employees))
	seen := make(map[int64]struct{}, len(employees))
	for _, emp := range employees {
		if !filter.IsEmpty() && !filter.Match(emp) {
			continue
		}
		if _, dup := seen[emp.ID]; dup {
			continue
		}
		seen[emp.ID] = struct{}{}
		out = append(out, emp)
	}
	return out
}
