package muster

import (
	"context"
	"sync"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
)

// memStore implements Source, RecordStore and CalendarSource in memory
type memStore struct {
	mu        sync.Mutex
	employees []Employee
	rows      []RawRecord
	holidays  []calendar.Holiday
	weekend   []calendar.WeekendConfig
	nextID    int64

	failEmployees error
	failRows      error
	failHolidays  error
	failWeekend   error

	employeeCalls int
	rowCalls      int
	lastFilter    Filter
	upserts       int
}

func (m *memStore) Employees(_ context.Context, filter Filter) ([]Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employeeCalls++
	m.lastFilter = filter
	if m.failEmployees != nil {
		return nil, m.failEmployees
	}
	return append([]Employee(nil), m.employees...), nil
}

func (m *memStore) AttendanceRows(_ context.Context, from, to dateutil.Date) ([]RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowCalls++
	if m.failRows != nil {
		return nil, m.failRows
	}
	return append([]RawRecord(nil), m.rows...), nil
}

func (m *memStore) Holidays(_ context.Context, from, to dateutil.Date) ([]calendar.Holiday, error) {
	if m.failHolidays != nil {
		return nil, m.failHolidays
	}
	return calendar.InRange(m.holidays, from, to), nil
}

func (m *memStore) WeekendConfigs(context.Context) ([]calendar.WeekendConfig, error) {
	if m.failWeekend != nil {
		return nil, m.failWeekend
	}
	return m.weekend, nil
}

func (m *memStore) EmployeeByID(_ context.Context, id int64) (Employee, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Employee{}, false, nil
}

func (m *memStore) FindRecord(_ context.Context, employeeID int64, date dateutil.Date) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, raw := range m.rows {
		rec, err := raw.Normalize()
		if err != nil {
			continue
		}
		if rec.EmployeeID == employeeID && rec.Date == date {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpsertRecord(_ context.Context, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	for i, raw := range m.rows {
		existing, err := raw.Normalize()
		if err != nil {
			continue
		}
		if existing.EmployeeID == rec.EmployeeID && existing.Date == rec.Date {
			rec.ID = existing.ID
			m.rows[i] = rec.Raw()
			return rec, nil
		}
	}
	m.nextID++
	id := m.nextID
	rec.ID = &id
	m.rows = append(m.rows, rec.Raw())
	return rec, nil
}

func strPtr(s string) *string { return &s }
