package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/attendance-muster/internal/muster"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

const attendanceColumns = "id, employee_id, date, check_in, check_out, total_hours, overtime_hours, status, remarks"

// AttendanceRows returns every stored row dated within [from, to]
func (s *Store) AttendanceRows(ctx context.Context, from, to dateutil.Date) ([]muster.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE date BETWEEN ? AND ? ORDER BY id",
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var out []muster.RawRecord
	for rows.Next() {
		var (
			raw        muster.RawRecord
			id         int64
			employeeID int64
		)
		err := rows.Scan(&id, &employeeID, &raw.Date, &raw.CheckIn, &raw.CheckOut,
			&raw.TotalHours, &raw.OvertimeHours, &raw.Status, &raw.Remarks)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		raw.ID = &id
		raw.EmployeeID = muster.IDFromInt(employeeID)
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance: %w", err)
	}

	return out, nil
}

// FindRecord returns the record of one cell, or nil when none exists
func (s *Store) FindRecord(ctx context.Context, employeeID int64, date dateutil.Date) (*muster.Record, error) {
	var (
		raw muster.RawRecord
		id  int64
		eid int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance WHERE employee_id = ? AND date = ?",
		employeeID, date.String(),
	).Scan(&id, &eid, &raw.Date, &raw.CheckIn, &raw.CheckOut,
		&raw.TotalHours, &raw.OvertimeHours, &raw.Status, &raw.Remarks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance record: %w", err)
	}

	raw.ID = &id
	raw.EmployeeID = muster.IDFromInt(eid)
	rec, err := raw.Normalize()
	if err != nil {
		return nil, fmt.Errorf("stored attendance record %d is invalid: %w", id, err)
	}
	return &rec, nil
}

const upsertAttendance = `
	INSERT INTO attendance (employee_id, date, check_in, check_out, total_hours, overtime_hours, status, remarks)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(employee_id, date) DO UPDATE SET
		check_in = excluded.check_in,
		check_out = excluded.check_out,
		total_hours = excluded.total_hours,
		overtime_hours = excluded.overtime_hours,
		status = excluded.status,
		remarks = excluded.remarks,
		updated_at = CURRENT_TIMESTAMP
	RETURNING id`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func upsertRecord(ctx context.Context, q queryRower, rec muster.Record) (muster.Record, error) {
	var id int64
	err := q.QueryRowContext(ctx, upsertAttendance,
		rec.EmployeeID, rec.Date.String(), rec.CheckIn, rec.CheckOut,
		rec.TotalHours.String(), rec.OvertimeHours.String(), string(rec.Status), rec.Remarks,
	).Scan(&id)
	if err != nil {
		return muster.Record{}, fmt.Errorf("failed to save attendance for employee %d on %s: %w", rec.EmployeeID, rec.Date, err)
	}
	rec.ID = &id
	return rec, nil
}

// UpsertRecord creates or replaces the record of (EmployeeID, Date)
func (s *Store) UpsertRecord(ctx context.Context, rec muster.Record) (muster.Record, error) {
	return upsertRecord(ctx, s.db, rec)
}

// ImportResult summarizes a bulk attendance import
type ImportResult struct {
	Imported int
	Rejected []muster.Rejection
}

// ImportAttendance normalizes and upserts raw rows in one transaction.
// Rows that fail normalization or name an unknown employee are rejected.
func (s *Store) ImportAttendance(ctx context.Context, rows []muster.RawRecord) (ImportResult, error) {
	var result ImportResult

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		known := make(map[int64]bool)
		for i, raw := range rows {
			rec, err := raw.Normalize()
			if err != nil {
				result.Rejected = append(result.Rejected, muster.Rejection{
					Row: i, EmployeeID: raw.EmployeeID, Date: raw.Date, Reason: err.Error(),
				})
				continue
			}

			exists, checked := known[rec.EmployeeID]
			if !checked {
				var n int
				if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees WHERE id = ?", rec.EmployeeID).Scan(&n); err != nil {
					return fmt.Errorf("failed to check employee %d: %w", rec.EmployeeID, err)
				}
				exists = n > 0
				known[rec.EmployeeID] = exists
			}
			if !exists {
				result.Rejected = append(result.Rejected, muster.Rejection{
					Row: i, EmployeeID: raw.EmployeeID, Date: raw.Date, Reason: "unknown employee",
				})
				continue
			}

			if _, err := upsertRecord(ctx, tx, rec); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	s.logger.Info("Attendance imported",
		zap.Int("imported", result.Imported),
		zap.Int("rejected", len(result.Rejected)))
	return result, nil
}
