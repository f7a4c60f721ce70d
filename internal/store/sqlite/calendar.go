package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

// Holidays returns the stored holidays within [from, to], ordered by date
func (s *Store) Holidays(ctx context.Context, from, to dateutil.Date) ([]calendar.Holiday, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date, name, type FROM holidays WHERE date BETWEEN ? AND ? ORDER BY date",
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var date, name, typ string
		if err := rows.Scan(&date, &name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		d, err := dateutil.ParseDate(date)
		if err != nil {
			s.logger.Warn("Skipping stored holiday with invalid date", zap.String("date", date))
			continue
		}
		holidayType, err := calendar.ParseHolidayType(typ)
		if err != nil {
			holidayType = calendar.HolidayNational
		}
		holidays = append(holidays, calendar.Holiday{Date: d, Name: name, Type: holidayType})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read holidays: %w", err)
	}

	return holidays, nil
}

// SaveHolidays inserts holidays, replacing name and type of existing dates
func (s *Store) SaveHolidays(ctx context.Context, holidays []calendar.Holiday) (int, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO holidays (date, name, type) VALUES (?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET name = excluded.name, type = excluded.type`)
		if err != nil {
			return fmt.Errorf("failed to prepare holiday insert: %w", err)
		}
		defer stmt.Close()

		for _, h := range holidays {
			typ := h.Type
			if typ == "" {
				typ = calendar.HolidayNational
			}
			if _, err := stmt.ExecContext(ctx, h.Date.String(), h.Name, string(typ)); err != nil {
				return fmt.Errorf("failed to save holiday %s: %w", h.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Holidays saved", zap.Int("count", len(holidays)))
	return len(holidays), nil
}

// WeekendConfigs returns the configured weekend days. An empty result means
// the caller falls back to Saturday and Sunday.
func (s *Store) WeekendConfigs(ctx context.Context) ([]calendar.WeekendConfig, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT weekday_number, label FROM weekend_configs ORDER BY weekday_number")
	if err != nil {
		return nil, fmt.Errorf("failed to query weekend configuration: %w", err)
	}
	defer rows.Close()

	var configs []calendar.WeekendConfig
	for rows.Next() {
		var c calendar.WeekendConfig
		if err := rows.Scan(&c.Weekday, &c.Label); err != nil {
			return nil, fmt.Errorf("failed to scan weekend configuration: %w", err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weekend configuration: %w", err)
	}

	return configs, nil
}

// SetWeekend replaces the weekend configuration
func (s *Store) SetWeekend(ctx context.Context, configs []calendar.WeekendConfig) error {
	for _, c := range configs {
		if !calendar.ValidWeekday(c.Weekday) {
			return fmt.Errorf("invalid weekday number %d (want 0..6)", c.Weekday)
		}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM weekend_configs"); err != nil {
			return fmt.Errorf("failed to clear weekend configuration: %w", err)
		}
		for _, c := range configs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO weekend_configs (weekday_number, label) VALUES (?, ?) ON CONFLICT(weekday_number) DO NOTHING",
				c.Weekday, c.Label)
			if err != nil {
				return fmt.Errorf("failed to save weekend day %d: %w", c.Weekday, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Weekend configuration saved", zap.Int("days", len(configs)))
	return nil
}
