package muster

import (
	"context"
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

// Source is the batched read side of the external collaborators.
// Each method is called at most once per muster build.
type Source interface {
	Employees(ctx context.Context, filter Filter) ([]Employee, error)
	AttendanceRows(ctx context.Context, from, to dateutil.Date) ([]RawRecord, error)
	Holidays(ctx context.Context, from, to dateutil.Date) ([]calendar.Holiday, error)
	WeekendConfigs(ctx context.Context) ([]calendar.WeekendConfig, error)
}

// Service builds monthly musters from a Source
type Service struct {
	source   Source
	holidays calendar.HolidaySource
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Service or Reconciler
type Option func(*options)

type options struct {
	holidays    calendar.HolidaySource
	location    *time.Location
	now         func() time.Time
	allowFuture bool
}

// WithHolidaySource overrides where holidays come from (default: the Source)
func WithHolidaySource(src calendar.HolidaySource) Option {
	return func(o *options) { o.holidays = src }
}

// WithLocation sets the zone in which "today" is computed
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// AllowFuture lets the reconciler write records for dates after today
func AllowFuture() Option {
	return func(o *options) { o.allowFuture = true }
}

func buildOptions(opts []Option) options {
	o := options{location: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.location == nil {
		o.location = time.Local
	}
	return o
}

// NewService creates a new muster service
func NewService(source Source, logger *zap.Logger, opts ...Option) *Service {
	o := buildOptions(opts)
	holidays := o.holidays
	if holidays == nil {
		holidays = source
	}

	return &Service{
		source:   source,
		holidays: holidays,
		location: o.location,
		now:      o.now,
		logger:   logger,
	}
}

// Today returns the service's current calendar date
func (s *Service) Today() dateutil.Date {
	return dateutil.TodayAt(s.now(), s.location)
}

// BuildMonthlyMuster fetches the month's data in one batch and builds the muster.
// Any fetch failure fails the whole build with an *UpstreamFetchError.
func (s *Service) BuildMonthlyMuster(ctx context.Context, year int, month time.Month, filter Filter) (*Muster, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	from := dateutil.FirstOfMonth(year, month)
	to := dateutil.LastOfMonth(year, month)
	today := s.Today()

	s.logger.Info("Building monthly muster",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Stringer("today", today),
		zap.Int64s("employee_filter", filter.EmployeeIDs),
		zap.String("department_filter", filter.Department))

	start := time.Now()

	employees, err := s.source.Employees(ctx, filter)
	if err != nil {
		return nil, &UpstreamFetchError{Resource: "employees", Err: err}
	}

	rows, err := s.source.AttendanceRows(ctx, from, to)
	if err != nil {
		return nil, &UpstreamFetchError{Resource: "attendance", Err: err}
	}

	holidays, err := s.holidays.Holidays(ctx, from, to)
	if err != nil {
		return nil, &UpstreamFetchError{Resource: "holidays", Err: err}
	}

	weekend, err := s.source.WeekendConfigs(ctx)
	if err != nil {
		return nil, &UpstreamFetchError{Resource: "weekend configuration", Err: err}
	}

	s.logger.Debug("Muster inputs fetched",
		zap.Int("employees", len(employees)),
		zap.Int("attendance_rows", len(rows)),
		zap.Int("holidays", len(holidays)),
		zap.Int("weekend_days", len(weekend)),
		zap.Duration("took", time.Since(start)))

	m, err := Build(Input{
		Year:      year,
		Month:     month,
		Today:     today,
		Employees: employees,
		Records:   rows,
		Holidays:  holidays,
		Weekend:   weekend,
		Filter:    filter,
	})
	if err != nil {
		return nil, err
	}

	for _, rej := range m.Diagnostics.Rejected {
		s.logger.Warn("Attendance row rejected",
			zap.Int("row", rej.Row),
			zap.String("employee_id", rej.EmployeeID.String()),
			zap.String("date", rej.Date),
			zap.String("reason", rej.Reason))
	}
	if m.Diagnostics.Duplicates > 0 {
		s.logger.Warn("Duplicate attendance rows replaced",
			zap.Int("duplicates", m.Diagnostics.Duplicates))
	}

	s.logger.Info("Monthly muster built",
		zap.Int("employees", m.Stats.TotalEmployees),
		zap.Int("present", m.Stats.Present),
		zap.Int("absent", m.Stats.Absent),
		zap.Int("holiday_cells", m.Stats.Holiday),
		zap.Duration("took", time.Since(start)))

	return m, nil
}
