package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	DefaultIsDayOffURL = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	PublicHolidayName  = "Public holiday"
)

// IsDayOffFeed implements HolidaySource using the isdayoff.ru bulk API.
// Non-working days that are not Saturday or Sunday become national holidays.
type IsDayOffFeed struct {
	baseURL    string
	country    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      map[string]*cachedMonth
	cacheMu    sync.RWMutex
	cacheTTL   time.Duration
	now        func() time.Time
}

type cachedMonth struct {
	holidays  []Holiday
	fetchedAt time.Time
}

// NewIsDayOffFeed creates a new IsDayOffFeed instance
func NewIsDayOffFeed(baseURL, country string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffFeed {
	if baseURL == "" {
		baseURL = DefaultIsDayOffURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &IsDayOffFeed{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cache:    make(map[string]*cachedMonth),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Holidays returns public holidays in [from, to], fetching each month once per TTL
func (c *IsDayOffFeed) Holidays(ctx context.Context, from, to dateutil.Date) ([]Holiday, error) {
	var out []Holiday

	year, month := from.Year, from.Month
	for !dateutil.FirstOfMonth(year, month).After(to) {
		holidays, err := c.MonthHolidays(ctx, year, month)
		if err != nil {
			return nil, err
		}
		out = append(out, InRange(holidays, from, to)...)

		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return out, nil
}

// MonthHolidays returns public holidays of one month
func (c *IsDayOffFeed) MonthHolidays(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	cacheKey := fmt.Sprintf("%d-%02d", year, month)

	c.cacheMu.RLock()
	if cached, ok := c.cache[cacheKey]; ok {
		if c.now().Sub(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached month holidays",
				zap.String("month", cacheKey))
			return cached.holidays, nil
		}
	}
	c.cacheMu.RUnlock()

	holidays, err := c.fetchMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[cacheKey] = &cachedMonth{
		holidays:  holidays,
		fetchedAt: c.now(),
	}
	c.cacheMu.Unlock()

	return holidays, nil
}

// fetchMonth fetches entire month from the bulk API
func (c *IsDayOffFeed) fetchMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1&cc=ru
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1", c.baseURL, year, int(month))
	if c.country != "" {
		url += "&cc=" + c.country
	}

	c.logger.Debug("Fetching month from isdayoff",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	holidays, err := parseBulkResponse(year, month, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Month holidays fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// parseBulkResponse parses the bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened working day
// 4 = working day (covid calendar)
func parseBulkResponse(year int, month time.Month, data string) ([]Holiday, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	var holidays []Holiday
	for i, code := range data {
		date := dateutil.Date{Year: year, Month: month, Day: i + 1}

		switch code {
		case '0', '2', '4':
		case '1':
			if dateutil.IsWeekend(date) {
				continue
			}
			holidays = append(holidays, Holiday{
				Date: date,
				Name: PublicHolidayName,
				Type: HolidayNational,
			})
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return holidays, nil
}

// ClearCache clears the cache
func (c *IsDayOffFeed) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*cachedMonth)
	c.logger.Info("Holiday cache cleared")
}
