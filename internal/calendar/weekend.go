package calendar

import (
	"time"

	"github.com/username/attendance-muster/pkg/dateutil"
)

// WeekendConfig marks one weekday (0=Sunday..6=Saturday) as non-working
type WeekendConfig struct {
	Weekday int    `json:"weekday_number"`
	Label   string `json:"label"`
}

// DefaultWeekend is used when no weekend days are configured
var DefaultWeekend = []WeekendConfig{
	{Weekday: int(time.Saturday), Label: "Saturday"},
	{Weekday: int(time.Sunday), Label: "Sunday"},
}

// WeekendClassifier decides whether a date is a configured weekend day
type WeekendClassifier struct {
	labels map[time.Weekday]string
}

// NewWeekendClassifier builds a classifier from the configured entries.
// An empty set falls back to DefaultWeekend. Entries outside 0..6 are ignored;
// for a repeated weekday the first label wins.
func NewWeekendClassifier(configs []WeekendConfig) *WeekendClassifier {
	if len(configs) == 0 {
		configs = DefaultWeekend
	}

	labels := make(map[time.Weekday]string, len(configs))
	for _, cfg := range configs {
		if cfg.Weekday < 0 || cfg.Weekday > 6 {
			continue
		}
		wd := time.Weekday(cfg.Weekday)
		if _, exists := labels[wd]; exists {
			continue
		}
		label := cfg.Label
		if label == "" {
			label = wd.String()
		}
		labels[wd] = label
	}

	return &WeekendClassifier{labels: labels}
}

// Classify reports whether date is a weekend and its label
func (w *WeekendClassifier) Classify(date dateutil.Date) (bool, string) {
	label, ok := w.labels[date.Weekday()]
	return ok, label
}

// Weekdays returns the configured weekend days in Sunday..Saturday order
func (w *WeekendClassifier) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, len(w.labels))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if _, ok := w.labels[wd]; ok {
			out = append(out, wd)
		}
	}
	return out
}

// ValidWeekday reports whether n is a weekday number 0..6
func ValidWeekday(n int) bool {
	return n >= 0 && n <= 6
}
