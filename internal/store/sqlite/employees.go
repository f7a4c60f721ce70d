package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/attendance-muster/internal/muster"
	"go.uber.org/zap"
)

const employeeColumns = "id, code, first_name, last_name, department, designation"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (muster.Employee, error) {
	var e muster.Employee
	err := row.Scan(&e.ID, &e.Code, &e.FirstName, &e.LastName, &e.Department, &e.Designation)
	return e, err
}

// Employees returns the directory entries matching filter, ordered by id
func (s *Store) Employees(ctx context.Context, filter muster.Filter) ([]muster.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees"
	var args []interface{}
	if filter.Department != "" {
		query += " WHERE department = ? COLLATE NOCASE"
		args = append(args, filter.Department)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []muster.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if filter.Match(e) {
			employees = append(employees, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}

// EmployeeByID returns the employee with the given id; ok is false when unknown
func (s *Store) EmployeeByID(ctx context.Context, id int64) (muster.Employee, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return muster.Employee{}, false, nil
	}
	if err != nil {
		return muster.Employee{}, false, fmt.Errorf("failed to query employee %d: %w", id, err)
	}
	return e, true, nil
}

// UpsertEmployees inserts or replaces directory entries by id
func (s *Store) UpsertEmployees(ctx context.Context, employees []muster.Employee) (int, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO employees (`+employeeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				code = excluded.code,
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				department = excluded.department,
				designation = excluded.designation`)
		if err != nil {
			return fmt.Errorf("failed to prepare employee upsert: %w", err)
		}
		defer stmt.Close()

		for _, e := range employees {
			if _, err := stmt.ExecContext(ctx, e.ID, e.Code, e.FirstName, e.LastName, e.Department, e.Designation); err != nil {
				return fmt.Errorf("failed to save employee %d: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Employees saved", zap.Int("count", len(employees)))
	return len(employees), nil
}
