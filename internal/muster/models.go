package muster

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/attendance-muster/pkg/dateutil"
)

// Employee is a directory entry; read-only to the muster engine
type Employee struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Department  string `json:"department_name,omitempty"`
	Designation string `json:"designation_name,omitempty"`
}

// DisplayName returns "First Last"
func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Status is a terminal attendance outcome. Weekend is never a Status.
type Status string

const (
	StatusPresent    Status = "Present"
	StatusAbsent     Status = "Absent"
	StatusHalfDay    Status = "HalfDay"
	StatusLate       Status = "Late"
	StatusEarlyLeave Status = "EarlyLeave"
	StatusOnLeave    Status = "OnLeave"
	StatusHoliday    Status = "Holiday"
)

// Statuses lists every terminal status in display order
var Statuses = []Status{
	StatusPresent,
	StatusAbsent,
	StatusHalfDay,
	StatusLate,
	StatusEarlyLeave,
	StatusOnLeave,
	StatusHoliday,
}

var statusAliases = map[string]Status{
	"present":    StatusPresent,
	"p":          StatusPresent,
	"absent":     StatusAbsent,
	"a":          StatusAbsent,
	"halfday":    StatusHalfDay,
	"half":       StatusHalfDay,
	"hd":         StatusHalfDay,
	"late":       StatusLate,
	"l":          StatusLate,
	"earlyleave": StatusEarlyLeave,
	"early":      StatusEarlyLeave,
	"el":         StatusEarlyLeave,
	"onleave":    StatusOnLeave,
	"leave":      StatusOnLeave,
	"ol":         StatusOnLeave,
	"holiday":    StatusHoliday,
	"h":          StatusHoliday,
}

// ParseStatus accepts canonical names and common spellings
// ("half_day", "Half Day", "early-leave", "on leave", short codes)
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown attendance status %q", s)
}

// Valid reports whether s is one of the terminal statuses
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Code returns the short display code
func (s Status) Code() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "A"
	case StatusHalfDay:
		return "HD"
	case StatusLate:
		return "L"
	case StatusEarlyLeave:
		return "EL"
	case StatusOnLeave:
		return "OL"
	case StatusHoliday:
		return CodeHoliday
	}
	return CodeNone
}

// Record is one persisted attendance row. ID is nil until stored.
type Record struct {
	ID            *int64          `json:"id"`
	EmployeeID    int64           `json:"employee_id"`
	Date          dateutil.Date   `json:"date"`
	CheckIn       *string         `json:"check_in,omitempty"`
	CheckOut      *string         `json:"check_out,omitempty"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Status        Status          `json:"status"`
	Remarks       *string         `json:"remarks,omitempty"`
}

// RawRecord is an attendance row as fetched from a collaborator, before
// identifier, date and status normalization
type RawRecord struct {
	ID            *int64          `json:"id,omitempty"`
	EmployeeID    FlexibleID      `json:"employee_id"`
	Date          string          `json:"date"`
	CheckIn       *string         `json:"check_in,omitempty"`
	CheckOut      *string         `json:"check_out,omitempty"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Status        string          `json:"status"`
	Remarks       *string         `json:"remarks,omitempty"`
}

// Normalize converts a raw row into a Record
func (r RawRecord) Normalize() (Record, error) {
	employeeID, err := r.EmployeeID.Int64()
	if err != nil {
		return Record{}, fmt.Errorf("employee id: %w", err)
	}

	date, err := dateutil.ParseDate(r.Date)
	if err != nil {
		return Record{}, fmt.Errorf("date: %w", err)
	}

	status, err := ParseStatus(r.Status)
	if err != nil {
		return Record{}, err
	}

	if r.TotalHours.IsNegative() || r.OvertimeHours.IsNegative() {
		return Record{}, fmt.Errorf("negative hours (total %s, overtime %s)", r.TotalHours, r.OvertimeHours)
	}

	return Record{
		ID:            r.ID,
		EmployeeID:    employeeID,
		Date:          date,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		TotalHours:    r.TotalHours,
		OvertimeHours: r.OvertimeHours,
		Status:        status,
		Remarks:       r.Remarks,
	}, nil
}

// Raw converts a Record back to its collaborator representation
func (r Record) Raw() RawRecord {
	return RawRecord{
		ID:            r.ID,
		EmployeeID:    IDFromInt(r.EmployeeID),
		Date:          r.Date.String(),
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		TotalHours:    r.TotalHours,
		OvertimeHours: r.OvertimeHours,
		Status:        string(r.Status),
		Remarks:       r.Remarks,
	}
}

// Filter narrows a muster to a subset of employees. The zero value matches everyone.
type Filter struct {
	EmployeeIDs []int64
	Department  string
}

// IsEmpty reports whether the filter matches everyone
func (f Filter) IsEmpty() bool {
	return len(f.EmployeeIDs) == 0 && f.Department == ""
}

// Match reports whether e passes the filter
func (f Filter) Match(e Employee) bool {
	if f.Department != "" && !strings.EqualFold(f.Department, e.Department) {
		return false
	}
	if len(f.EmployeeIDs) == 0 {
		return true
	}
	for _, id := range f.EmployeeIDs {
		if id == e.ID {
			return true
		}
	}
	return false
}
