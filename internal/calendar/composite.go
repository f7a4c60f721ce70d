package calendar

import (
	"context"
	"fmt"

	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

// CompositeHolidays implements HolidaySource with fallback strategy
// Primary: IsDayOffFeed (API)
// Fallback: FileHolidays (local file)
type CompositeHolidays struct {
	primary  HolidaySource
	fallback HolidaySource
	logger   *zap.Logger
}

// NewCompositeHolidays creates a new CompositeHolidays
func NewCompositeHolidays(primary, fallback HolidaySource, logger *zap.Logger) *CompositeHolidays {
	return &CompositeHolidays{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays asks the primary source and falls back on error
func (ch *CompositeHolidays) Holidays(ctx context.Context, from, to dateutil.Date) ([]Holiday, error) {
	holidays, err := ch.primary.Holidays(ctx, from, to)
	if err == nil {
		return holidays, nil
	}

	ch.logger.Warn("Primary holiday source failed, falling back",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Error(err))

	holidays, fallbackErr := ch.fallback.Holidays(ctx, from, to)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return holidays, nil
}
