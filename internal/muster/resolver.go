package muster

import (
	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
)

// Display codes that are not attendance statuses
const (
	CodeHoliday = "H"
	CodeWeekend = "WD"
	CodeNone    = "-"
)

// Kind is the classification a cell resolved to
type Kind int

const (
	KindHoliday Kind = iota + 1
	KindWeekend
	KindFuture
	KindRecorded
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindHoliday:
		return "holiday"
	case KindWeekend:
		return "weekend"
	case KindFuture:
		return "future"
	case KindRecorded:
		return "recorded"
	case KindMissing:
		return "missing"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Cell is one resolved (employee, date) entry of the muster
type Cell struct {
	EmployeeID int64         `json:"employee_id"`
	Date       dateutil.Date `json:"date"`
	Kind       Kind          `json:"kind"`
	Code       string        `json:"code"`
	Label      string        `json:"label,omitempty"` // holiday name or weekend label
	Record     *Record       `json:"record,omitempty"`
}

// Editable reports whether a person may create or edit the record behind the cell
func (c Cell) Editable() bool {
	return c.Kind == KindRecorded || c.Kind == KindMissing
}

// Resolver assigns exactly one classification per employee-day
type Resolver struct {
	weekend  *calendar.WeekendClassifier
	holidays *calendar.HolidayClassifier
	index    *Index
}

// NewResolver creates a Resolver over the given classifiers and index
func NewResolver(weekend *calendar.WeekendClassifier, holidays *calendar.HolidayClassifier, index *Index) *Resolver {
	return &Resolver{
		weekend:  weekend,
		holidays: holidays,
		index:    index,
	}
}

// Resolve classifies one day for one employee. First match wins:
// holiday, weekend, future, recorded, missing. A stray record on a holiday,
// weekend or future day is attached to the cell but never counted.
func (r *Resolver) Resolve(employeeID int64, day calendar.Day) Cell {
	cell := Cell{
		EmployeeID: employeeID,
		Date:       day.Date,
	}

	if rec, ok := r.index.Lookup(employeeID, day.Date); ok {
		cell.Record = &rec
	}

	if isHoliday, name := r.holidays.Classify(day.Date); isHoliday {
		cell.Kind = KindHoliday
		cell.Code = CodeHoliday
		cell.Label = name
		return cell
	}

	if isWeekend, label := r.weekend.Classify(day.Date); isWeekend {
		cell.Kind = KindWeekend
		cell.Code = CodeWeekend
		cell.Label = label
		return cell
	}

	if day.IsFuture {
		cell.Kind = KindFuture
		cell.Code = CodeNone
		return cell
	}

	if cell.Record != nil {
		cell.Kind = KindRecorded
		cell.Code = cell.Record.Status.Code()
		return cell
	}

	// A missing record is not an absence; it is left for a person to reconcile
	cell.Kind = KindMissing
	cell.Code = CodeNone
	return cell
}
