package muster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

func newServiceStore() *memStore {
	return &memStore{
		employees: []Employee{
			{ID: 7, Department: "Engineering"},
			{ID: 8, Department: "Operations"},
		},
		rows: []RawRecord{
			{EmployeeID: "7", Date: "2025-10-03", Status: "Present"},
			{EmployeeID: "8", Date: "2025-10-03", Status: "Absent"},
		},
		holidays: []calendar.Holiday{
			{Date: dateutil.NewDate(2025, 10, 2), Name: "Gandhi Jayanti"},
			{Date: dateutil.NewDate(2025, 11, 1), Name: "Next month"},
		},
	}
}

func TestBuildMonthlyMuster(t *testing.T) {
	store := newServiceStore()
	clock := func() time.Time { return time.Date(2025, 10, 14, 23, 30, 0, 0, time.UTC) }
	svc := NewService(store, zap.NewNop(), WithLocation(time.UTC), WithClock(clock))

	m, err := svc.BuildMonthlyMuster(context.Background(), 2025, time.October, Filter{})
	if err != nil {
		t.Fatalf("BuildMonthlyMuster() error = %v", err)
	}

	if store.employeeCalls != 1 || store.rowCalls != 1 {
		t.Errorf("source calls = (%d employees, %d rows), want one each", store.employeeCalls, store.rowCalls)
	}
	if m.Stats.TotalEmployees != 2 || m.Stats.Present != 1 || m.Stats.Absent != 1 || m.Stats.Holiday != 2 {
		t.Errorf("Stats = %+v", m.Stats)
	}
	if len(m.Holidays) != 1 {
		t.Errorf("Holidays = %v, want only October", m.Holidays)
	}

	for _, d := range m.Days {
		if d.IsToday && d.Number != 14 {
			t.Errorf("today resolved to Oct %d, want Oct 14", d.Number)
		}
	}
}

func TestBuildMonthlyMusterUsesLocation(t *testing.T) {
	store := newServiceStore()
	// 23:30 UTC on Oct 14 is already Oct 15 in UTC+3
	clock := func() time.Time { return time.Date(2025, 10, 14, 23, 30, 0, 0, time.UTC) }
	svc := NewService(store, zap.NewNop(), WithLocation(time.FixedZone("UTC+3", 3*3600)), WithClock(clock))

	if got, want := svc.Today(), dateutil.NewDate(2025, 10, 15); got != want {
		t.Errorf("Today() = %v, want %v", got, want)
	}
}

func TestBuildMonthlyMusterPassesFilter(t *testing.T) {
	store := newServiceStore()
	svc := NewService(store, zap.NewNop())

	filter := Filter{Department: "Operations"}
	m, err := svc.BuildMonthlyMuster(context.Background(), 2025, time.October, filter)
	if err != nil {
		t.Fatalf("BuildMonthlyMuster() error = %v", err)
	}

	if store.lastFilter.Department != "Operations" {
		t.Errorf("source got filter %+v", store.lastFilter)
	}
	if len(m.Rows) != 1 || m.Rows[0].Employee.ID != 8 {
		t.Errorf("rows = %v, want only employee 8", m.Rows)
	}
}

func TestBuildMonthlyMusterUpstreamFailure(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name  string
		setup func(*memStore)
	}{
		{"employees", func(m *memStore) { m.failEmployees = boom }},
		{"attendance", func(m *memStore) { m.failRows = boom }},
		{"holidays", func(m *memStore) { m.failHolidays = boom }},
		{"weekend", func(m *memStore) { m.failWeekend = boom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newServiceStore()
			tt.setup(store)
			svc := NewService(store, zap.NewNop())

			m, err := svc.BuildMonthlyMuster(context.Background(), 2025, time.October, Filter{})
			if m != nil {
				t.Errorf("BuildMonthlyMuster() returned a partial muster")
			}
			if !IsUpstream(err) {
				t.Fatalf("BuildMonthlyMuster() error = %v, want UpstreamFetchError", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("error %v does not wrap the cause", err)
			}
		})
	}
}

func TestBuildMonthlyMusterHolidaySourceOverride(t *testing.T) {
	store := newServiceStore()
	store.failHolidays = errors.New("store holidays must not be used")

	override := holidayFunc(func(_ context.Context, from, to dateutil.Date) ([]calendar.Holiday, error) {
		return []calendar.Holiday{{Date: dateutil.NewDate(2025, 10, 6), Name: "Override"}}, nil
	})
	svc := NewService(store, zap.NewNop(), WithHolidaySource(override))

	m, err := svc.BuildMonthlyMuster(context.Background(), 2025, time.October, Filter{})
	if err != nil {
		t.Fatalf("BuildMonthlyMuster() error = %v", err)
	}
	if len(m.Holidays) != 1 || m.Holidays[0].Name != "Override" {
		t.Errorf("Holidays = %v, want override", m.Holidays)
	}
}

func TestBuildMonthlyMusterInvalidMonth(t *testing.T) {
	store := newServiceStore()
	svc := NewService(store, zap.NewNop())

	_, err := svc.BuildMonthlyMuster(context.Background(), 2025, 13, Filter{})
	if !IsValidation(err) {
		t.Errorf("BuildMonthlyMuster(13) error = %v, want ValidationError", err)
	}
	if store.employeeCalls != 0 {
		t.Error("invalid request reached the source")
	}
}

type holidayFunc func(ctx context.Context, from, to dateutil.Date) ([]calendar.Holiday, error)

func (f holidayFunc) Holidays(ctx context.Context, from, to dateutil.Date) ([]calendar.Holiday, error) {
	return f(ctx, from, to)
}
