package muster

// Counts holds cell counts per countable classification
type Counts struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	HalfDay    int `json:"half_day"`
	Late       int `json:"late"`
	EarlyLeave int `json:"early_leave"`
	OnLeave    int `json:"on_leave"`
	Holiday    int `json:"holiday"`
}

// Add counts one resolved cell. Weekend, future and missing cells are not counted.
func (c *Counts) Add(cell Cell) {
	switch cell.Kind {
	case KindHoliday:
		c.Holiday++
	case KindRecorded:
		c.addStatus(cell.Record.Status)
	}
}

func (c *Counts) addStatus(status Status) {
	switch status {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusHalfDay:
		c.HalfDay++
	case StatusLate:
		c.Late++
	case StatusEarlyLeave:
		c.EarlyLeave++
	case StatusOnLeave:
		c.OnLeave++
	case StatusHoliday:
		c.Holiday++
	}
}

// Attendance returns the sum of the six working-day statuses
func (c Counts) Attendance() int {
	return c.Present + c.Absent + c.HalfDay + c.Late + c.EarlyLeave + c.OnLeave
}

// Stats is the month roll-up across the whole grid
type Stats struct {
	TotalEmployees int `json:"total_employees"`
	Counts
}

// RowSummary is the roll-up of one employee's row
type RowSummary struct {
	Counts
	Missing int `json:"missing"` // past or today, working day, no record
}

func summarize(cells []Cell) RowSummary {
	var s RowSummary
	for _, cell := range cells {
		s.Add(cell)
		if cell.Kind == KindMissing {
			s.Missing++
		}
	}
	return s
}

// Aggregate folds all rows into month statistics in a single pass.
// TotalEmployees counts distinct employees regardless of attendance.
func Aggregate(rows []Row) Stats {
	var stats Stats
	seen := make(map[int64]struct{}, len(rows))

	for _, row := range rows {
		seen[row.Employee.ID] = struct{}{}
		for _, cell := range row.Cells {
			stats.Add(cell)
		}
	}

	stats.TotalEmployees = len(seen)
	return stats
}
