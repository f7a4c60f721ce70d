package main

import (
	"context"
	"fmt"
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/internal/config"
	"github.com/username/attendance-muster/internal/hrapi"
	"github.com/username/attendance-muster/internal/muster"
	"github.com/username/attendance-muster/internal/store/sqlite"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

// backend bundles the collaborators selected by source.type
type backend struct {
	source   muster.Source
	records  muster.RecordStore
	calendar muster.CalendarSource
	holidays calendar.HolidaySource
	store    *sqlite.Store // nil unless source.type is sqlite
	location *time.Location
	close    func() error
}

func openBackend(cfg *config.Config) (*backend, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	b := &backend{location: loc, close: func() error { return nil }}

	switch cfg.Source.Type {
	case config.SourceHRAPI:
		logger.Info("Using HR API source", zap.String("base_url", cfg.HRAPI.BaseURL))
		client := hrapi.NewClient(hrapi.Config{
			BaseURL: cfg.HRAPI.BaseURL,
			Token:   cfg.HRAPI.Token,
			Timeout: cfg.HRAPI.GetTimeout(),
			Retries: cfg.HRAPI.Retries,
		}, logger)
		b.source, b.records, b.calendar = client, client, client

	default:
		logger.Info("Using SQLite source", zap.String("path", cfg.Database.Path))
		store, err := sqlite.New(cfg.Database.Path, logger)
		if err != nil {
			return nil, err
		}
		b.source, b.records, b.calendar = store, store, store
		b.store = store
		b.close = store.Close
	}

	b.holidays = b.calendar
	if cfg.Calendar.HolidayFile != "" {
		fallback := calendar.NewFileHolidays(cfg.Calendar.HolidayFile, logger)
		b.holidays = calendar.NewCompositeHolidays(b.calendar, fallback, logger)
	}

	return b, nil
}

// requireStore fails commands that write to the local database
func (b *backend) requireStore() (*sqlite.Store, error) {
	if b.store == nil {
		return nil, fmt.Errorf("this command requires source.type %q", config.SourceSQLite)
	}
	return b.store, nil
}

func (b *backend) options(extra ...muster.Option) []muster.Option {
	opts := []muster.Option{
		muster.WithLocation(b.location),
		muster.WithHolidaySource(b.holidays),
	}
	return append(opts, extra...)
}

// holidayCalendar serves holidays from the configured holiday source and
// weekend days from the backend
type holidayCalendar struct {
	muster.CalendarSource
	holidays calendar.HolidaySource
}

func (c holidayCalendar) Holidays(ctx context.Context, from, to dateutil.Date) ([]calendar.Holiday, error) {
	return c.holidays.Holidays(ctx, from, to)
}

func (b *backend) reconcileCalendar() muster.CalendarSource {
	return holidayCalendar{CalendarSource: b.calendar, holidays: b.holidays}
}
