package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

func TestIsDayOffFeed_ParseBulkResponse(t *testing.T) {
	tests := []struct {
		name         string
		year         int
		month        time.Month
		data         string
		wantHolidays []int
	}{
		{
			name:         "November 2025 with holiday on Tuesday 4th",
			year:         2025,
			month:        time.November,
			data:         "211100011000001100000110000011", // 30 days
			wantHolidays: []int{3, 4},
		},
		{
			name:         "July 2025 weekends only",
			year:         2025,
			month:        time.July,
			data:         "0000110000011000001100000110000", // 31 days
			wantHolidays: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holidays, err := parseBulkResponse(tt.year, tt.month, tt.data)
			if err != nil {
				t.Fatalf("parseBulkResponse() error = %v", err)
			}

			if len(holidays) != len(tt.wantHolidays) {
				t.Fatalf("holidays count = %d, want %d (%v)", len(holidays), len(tt.wantHolidays), holidays)
			}

			for i, day := range tt.wantHolidays {
				if holidays[i].Date.Day != day {
					t.Errorf("holiday[%d] day = %d, want %d", i, holidays[i].Date.Day, day)
				}
				if holidays[i].Type != HolidayNational {
					t.Errorf("holiday[%d] type = %v, want national", i, holidays[i].Type)
				}
			}
		})
	}
}

func TestIsDayOffFeed_ParseBulkResponse_InvalidLength(t *testing.T) {
	// November has 30 days, but providing only 29
	data := "21110001100000110000011000001"
	if _, err := parseBulkResponse(2025, time.November, data); err == nil {
		t.Error("parseBulkResponse() expected error for invalid length, got nil")
	}
}

func TestIsDayOffFeed_ParseBulkResponse_UnknownCode(t *testing.T) {
	data := "21110001100000110000011000001x"
	if _, err := parseBulkResponse(2025, time.November, data); err == nil {
		t.Error("parseBulkResponse() expected error for unknown code, got nil")
	}
}

func TestIsDayOffFeed_HolidaysAcrossMonths(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/api/getdata" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("cc") != "ru" {
			t.Errorf("cc = %q, want ru", r.URL.Query().Get("cc"))
		}
		switch r.URL.Query().Get("month") {
		case "12":
			// Dec 2025: 25th (Thursday) off
			w.Write([]byte("0000011000001100000110001011000"))
		case "1":
			// Jan 2026: 1st (Thursday) and 2nd (Friday) off
			w.Write([]byte("1111000001100000110000011000001"))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	feed := NewIsDayOffFeed(server.URL, "ru", time.Hour, zap.NewNop())

	from := dateutil.NewDate(2025, 12, 20)
	to := dateutil.NewDate(2026, 1, 10)
	holidays, err := feed.Holidays(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	want := []dateutil.Date{
		dateutil.NewDate(2025, 12, 25),
		dateutil.NewDate(2026, 1, 1),
		dateutil.NewDate(2026, 1, 2),
	}
	if len(holidays) != len(want) {
		t.Fatalf("Holidays() returned %d entries, want %d: %v", len(holidays), len(want), holidays)
	}
	for i, d := range want {
		if holidays[i].Date != d {
			t.Errorf("holiday[%d] = %v, want %v", i, holidays[i].Date, d)
		}
	}

	// Second call is served from cache
	if _, err := feed.Holidays(context.Background(), from, to); err != nil {
		t.Fatalf("Holidays() second call error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("API calls = %d, want 2", got)
	}
}

func TestIsDayOffFeed_CacheExpiry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("211100011000001100000110000011"))
	}))
	defer server.Close()

	feed := NewIsDayOffFeed(server.URL, "", time.Hour, zap.NewNop())
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	feed.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := feed.MonthHolidays(ctx, 2025, time.November); err != nil {
		t.Fatalf("MonthHolidays() error = %v", err)
	}

	now = now.Add(30 * time.Minute)
	if _, err := feed.MonthHolidays(ctx, 2025, time.November); err != nil {
		t.Fatalf("MonthHolidays() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("API calls within TTL = %d, want 1", got)
	}

	now = now.Add(2 * time.Hour)
	if _, err := feed.MonthHolidays(ctx, 2025, time.November); err != nil {
		t.Fatalf("MonthHolidays() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("API calls after TTL = %d, want 2", got)
	}

	feed.ClearCache()
	feed.cacheMu.RLock()
	if len(feed.cache) != 0 {
		t.Errorf("Cache not cleared, len = %d", len(feed.cache))
	}
	feed.cacheMu.RUnlock()
}

func TestIsDayOffFeed_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	feed := NewIsDayOffFeed(server.URL, "", time.Hour, zap.NewNop())
	if _, err := feed.MonthHolidays(context.Background(), 2025, time.November); err == nil {
		t.Error("MonthHolidays() expected error on 500, got nil")
	}
}
