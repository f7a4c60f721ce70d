package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/internal/muster"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
)

// Client is a client of the HR backend's attendance API
type Client struct {
	baseURL    string
	token      string
	retries    int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds the client settings; zero values select the defaults
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retries int
}

// NewClient creates a new HR API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		retries:    retries,
		retryDelay: time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Employees returns the directory entries matching filter. Entries whose id
// cannot be read as an integer are skipped with a warning.
func (c *Client) Employees(ctx context.Context, filter muster.Filter) ([]muster.Employee, error) {
	q := url.Values{}
	if filter.Department != "" {
		q.Set("department", filter.Department)
	}
	for _, id := range filter.EmployeeIDs {
		q.Add("id", strconv.FormatInt(id, 10))
	}

	var wire []Employee
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/employees", q), nil, &wire); err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	employees := make([]muster.Employee, 0, len(wire))
	for _, w := range wire {
		e, err := w.toMuster()
		if err != nil {
			c.logger.Warn("Skipping employee with invalid id",
				zap.String("id", w.ID.String()),
				zap.Error(err))
			continue
		}
		if filter.Match(e) {
			employees = append(employees, e)
		}
	}

	c.logger.Info("Employees retrieved",
		zap.Int("total_fetched", len(wire)),
		zap.Int("count", len(employees)))

	return employees, nil
}

// EmployeeByID returns one employee; ok is false on 404
func (c *Client) EmployeeByID(ctx context.Context, id int64) (muster.Employee, bool, error) {
	var wire Employee
	err := c.doRequest(ctx, http.MethodGet, "/employees/"+strconv.FormatInt(id, 10), nil, &wire)
	if isStatus(err, http.StatusNotFound) {
		return muster.Employee{}, false, nil
	}
	if err != nil {
		return muster.Employee{}, false, fmt.Errorf("failed to get employee %d: %w", id, err)
	}

	e, err := wire.toMuster()
	if err != nil {
		return muster.Employee{}, false, fmt.Errorf("employee %d has invalid id: %w", id, err)
	}
	return e, true, nil
}

// AttendanceRows returns the raw attendance rows dated within [from, to]
func (c *Client) AttendanceRows(ctx context.Context, from, to dateutil.Date) ([]muster.RawRecord, error) {
	q := url.Values{}
	q.Set("from", from.String())
	q.Set("to", to.String())

	var rows []muster.RawRecord
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/attendance", q), nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	c.logger.Info("Attendance rows retrieved",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("count", len(rows)))

	return rows, nil
}

// FindRecord returns the record of one cell, or nil on 404
func (c *Client) FindRecord(ctx context.Context, employeeID int64, date dateutil.Date) (*muster.Record, error) {
	q := url.Values{}
	q.Set("employee_id", strconv.FormatInt(employeeID, 10))
	q.Set("date", date.String())

	var raw muster.RawRecord
	err := c.doRequest(ctx, http.MethodGet, withQuery("/attendance/record", q), nil, &raw)
	if isStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	rec, err := raw.Normalize()
	if err != nil {
		return nil, fmt.Errorf("backend returned an invalid attendance record: %w", err)
	}
	return &rec, nil
}

// UpsertRecord creates or replaces the record of (EmployeeID, Date); the
// backend enforces uniqueness on that pair
func (c *Client) UpsertRecord(ctx context.Context, rec muster.Record) (muster.Record, error) {
	var saved muster.RawRecord
	if err := c.doRequest(ctx, http.MethodPut, "/attendance", rec.Raw(), &saved); err != nil {
		return muster.Record{}, fmt.Errorf("failed to save attendance record: %w", err)
	}

	out, err := saved.Normalize()
	if err != nil {
		return muster.Record{}, fmt.Errorf("backend returned an invalid attendance record: %w", err)
	}

	c.logger.Info("Attendance record saved",
		zap.Int64("employee_id", out.EmployeeID),
		zap.Stringer("date", out.Date),
		zap.String("status", string(out.Status)))

	return out, nil
}

// Holidays returns the holidays within [from, to]
func (c *Client) Holidays(ctx context.Context, from, to dateutil.Date) ([]calendar.Holiday, error) {
	q := url.Values{}
	q.Set("from", from.String())
	q.Set("to", to.String())

	var wire []Holiday
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/holidays", q), nil, &wire); err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}

	holidays := make([]calendar.Holiday, 0, len(wire))
	for _, w := range wire {
		date, err := dateutil.ParseDate(w.Date)
		if err != nil {
			c.logger.Warn("Skipping holiday with invalid date",
				zap.String("date", w.Date),
				zap.String("name", w.Name))
			continue
		}
		typ, err := calendar.ParseHolidayType(w.Type)
		if err != nil {
			typ = calendar.HolidayNational
		}
		holidays = append(holidays, calendar.Holiday{Date: date, Name: w.Name, Type: typ})
	}

	return calendar.InRange(holidays, from, to), nil
}

// WeekendConfigs returns the configured weekend days
func (c *Client) WeekendConfigs(ctx context.Context) ([]calendar.WeekendConfig, error) {
	var configs []calendar.WeekendConfig
	if err := c.doRequest(ctx, http.MethodGet, "/weekend-configs", nil, &configs); err != nil {
		return nil, fmt.Errorf("failed to get weekend configuration: %w", err)
	}
	return configs, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func isStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// doRequest performs an authenticated JSON request, retrying transport
// failures and 5xx/429 responses
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	endpoint := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		err := c.doRequestOnce(ctx, method, endpoint, payload, result)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		lastErr = err
		c.logger.Warn("Request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.retries),
			zap.Error(err))

		if attempt < c.retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.retries, lastErr)
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, method, endpoint string, payload []byte, result interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
