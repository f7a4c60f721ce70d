package muster

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

// RecordStore is the write side used by the reconciler. UpsertRecord relies on
// the store's (employee, date) uniqueness to serialize concurrent writers.
type RecordStore interface {
	EmployeeByID(ctx context.Context, id int64) (Employee, bool, error)
	FindRecord(ctx context.Context, employeeID int64, date dateutil.Date) (*Record, error)
	UpsertRecord(ctx context.Context, rec Record) (Record, error)
}

// CalendarSource supplies the non-working day definitions
type CalendarSource interface {
	calendar.HolidaySource
	WeekendConfigs(ctx context.Context) ([]calendar.WeekendConfig, error)
}

// Fields are the caller-supplied values for one cell. Nil pointers and an
// empty Status mean "not supplied"; a pointer to "" clears the value.
type Fields struct {
	CheckIn  *string
	CheckOut *string
	Status   string
	Remarks  *string
}

// Reconciler creates or updates the record of a single cell
type Reconciler struct {
	store       RecordStore
	calendar    CalendarSource
	location    *time.Location
	now         func() time.Time
	allowFuture bool
	logger      *zap.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(store RecordStore, cal CalendarSource, logger *zap.Logger, opts ...Option) *Reconciler {
	o := buildOptions(opts)
	return &Reconciler{
		store:       store,
		calendar:    cal,
		location:    o.location,
		now:         o.now,
		allowFuture: o.allowFuture,
		logger:      logger,
	}
}

// ReconcileDay creates or updates the record for (employeeID, date).
// Holidays and weekend days are refused with a *ValidationError, unknown
// employees with a *NotFoundError. A new record defaults to Present.
func (r *Reconciler) ReconcileDay(ctx context.Context, employeeID int64, date dateutil.Date, fields Fields) (Record, error) {
	if date.IsZero() {
		return Record{}, validationErr("date", "is required")
	}

	if err := r.checkWorkingDay(ctx, date); err != nil {
		return Record{}, err
	}

	if !r.allowFuture {
		if today := dateutil.TodayAt(r.now(), r.location); date.After(today) {
			return Record{}, validationErr("date", "%s is in the future", date)
		}
	}

	normalized, err := normalizeFields(fields)
	if err != nil {
		return Record{}, err
	}

	if _, ok, err := r.store.EmployeeByID(ctx, employeeID); err != nil {
		return Record{}, &UpstreamFetchError{Resource: "employee", Err: err}
	} else if !ok {
		return Record{}, &NotFoundError{Resource: "employee", ID: strconv.FormatInt(employeeID, 10)}
	}

	existing, err := r.store.FindRecord(ctx, employeeID, date)
	if err != nil {
		return Record{}, &UpstreamFetchError{Resource: "attendance", Err: err}
	}

	var rec Record
	if existing != nil {
		rec = *existing
		applyFields(&rec, normalized)
	} else {
		rec = Record{
			EmployeeID: employeeID,
			Date:       date,
			Status:     StatusPresent,
		}
		applyFields(&rec, normalized)
	}

	saved, err := r.store.UpsertRecord(ctx, rec)
	if err != nil {
		return Record{}, fmt.Errorf("failed to save attendance record: %w", err)
	}

	r.logger.Info("Attendance reconciled",
		zap.Int64("employee_id", employeeID),
		zap.Stringer("date", date),
		zap.String("status", string(saved.Status)),
		zap.Bool("created", existing == nil))

	return saved, nil
}

func (r *Reconciler) checkWorkingDay(ctx context.Context, date dateutil.Date) error {
	holidays, err := r.calendar.Holidays(ctx, date, date)
	if err != nil {
		return &UpstreamFetchError{Resource: "holidays", Err: err}
	}
	if isHoliday, name := calendar.NewHolidayClassifier(holidays).Classify(date); isHoliday {
		return validationErr("date", "%s is a holiday (%s)", date, name)
	}

	weekend, err := r.calendar.WeekendConfigs(ctx)
	if err != nil {
		return &UpstreamFetchError{Resource: "weekend configuration", Err: err}
	}
	if isWeekend, label := calendar.NewWeekendClassifier(weekend).Classify(date); isWeekend {
		return validationErr("date", "%s is a weekend day (%s)", date, label)
	}

	return nil
}

type normalizedFields struct {
	checkIn  *string
	checkOut *string
	status   Status
	remarks  *string
}

func normalizeFields(f Fields) (normalizedFields, error) {
	var out normalizedFields
	var err error

	if out.checkIn, err = normalizeClock("check_in", f.CheckIn); err != nil {
		return out, err
	}
	if out.checkOut, err = normalizeClock("check_out", f.CheckOut); err != nil {
		return out, err
	}

	if strings.TrimSpace(f.Status) != "" {
		status, err := ParseStatus(f.Status)
		if err != nil {
			return out, validationErr("status", "%v", err)
		}
		out.status = status
	}

	if f.Remarks != nil {
		remarks := strings.TrimSpace(*f.Remarks)
		out.remarks = &remarks
	}

	return out, nil
}

var clockLayouts = []string{"15:04", "15:04:05"}

// normalizeClock validates HH:MM[:SS]; a pointer to "" is kept as a clear request
func normalizeClock(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return &s, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			formatted := t.Format(layout)
			return &formatted, nil
		}
	}
	return nil, validationErr(field, "%q is not a HH:MM time", *value)
}

func applyFields(rec *Record, f normalizedFields) {
	if f.checkIn != nil {
		rec.CheckIn = emptyToNil(*f.checkIn)
	}
	if f.checkOut != nil {
		rec.CheckOut = emptyToNil(*f.checkOut)
	}
	if f.status != "" {
		rec.Status = f.status
	}
	if f.remarks != nil {
		rec.Remarks = emptyToNil(*f.remarks)
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
