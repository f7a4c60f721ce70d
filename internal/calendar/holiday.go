package calendar

import (
	"fmt"
	"strings"

	"github.com/username/attendance-muster/pkg/dateutil"
)

// HolidayType only affects display, never classification precedence
type HolidayType string

const (
	HolidayNational HolidayType = "national"
	HolidayRegional HolidayType = "regional"
	HolidayCompany  HolidayType = "company"
	HolidayFloating HolidayType = "floating"
)

// ParseHolidayType parses a holiday type case-insensitively
func ParseHolidayType(s string) (HolidayType, error) {
	switch t := HolidayType(strings.ToLower(strings.TrimSpace(s))); t {
	case HolidayNational, HolidayRegional, HolidayCompany, HolidayFloating:
		return t, nil
	}
	return "", fmt.Errorf("unknown holiday type %q", s)
}

// Holiday is a non-working day defined by HR
type Holiday struct {
	Date dateutil.Date `json:"date"`
	Name string        `json:"name"`
	Type HolidayType   `json:"type"`
}

// HolidayClassifier answers whether a date is a holiday
type HolidayClassifier struct {
	byDate map[dateutil.Date]Holiday
}

// NewHolidayClassifier indexes holidays by date. When several holidays share
// a date the first one in collection order wins.
func NewHolidayClassifier(holidays []Holiday) *HolidayClassifier {
	byDate := make(map[dateutil.Date]Holiday, len(holidays))
	for _, h := range holidays {
		if _, exists := byDate[h.Date]; exists {
			continue
		}
		byDate[h.Date] = h
	}
	return &HolidayClassifier{byDate: byDate}
}

// Classify reports whether date is a holiday and its name
func (c *HolidayClassifier) Classify(date dateutil.Date) (bool, string) {
	h, ok := c.byDate[date]
	return ok, h.Name
}

// Lookup returns the holiday on date, if any
func (c *HolidayClassifier) Lookup(date dateutil.Date) (Holiday, bool) {
	h, ok := c.byDate[date]
	return h, ok
}

// InRange filters holidays to [from, to]
func InRange(holidays []Holiday, from, to dateutil.Date) []Holiday {
	out := make([]Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		out = append(out, h)
	}
	return out
}
