package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

// FileHolidays implements HolidaySource using a local text file
type FileHolidays struct {
	filePath string
	logger   *zap.Logger

	mu       sync.RWMutex
	holidays []Holiday
	loaded   bool
}

// NewFileHolidays creates a new FileHolidays instance
func NewFileHolidays(filePath string, logger *zap.Logger) *FileHolidays {
	return &FileHolidays{
		filePath: filePath,
		logger:   logger,
	}
}

// Load loads holiday data from file
func (fh *FileHolidays) Load() error {
	file, err := os.Open(fh.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	holidays, err := ParseHolidayList(file, fh.logger)
	if err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fh.mu.Lock()
	fh.holidays = holidays
	fh.loaded = true
	fh.mu.Unlock()

	fh.logger.Info("Holiday file loaded",
		zap.String("file", fh.filePath),
		zap.Int("holidays", len(holidays)))

	return nil
}

// Holidays returns loaded holidays within [from, to], loading the file on first use
func (fh *FileHolidays) Holidays(_ context.Context, from, to dateutil.Date) ([]Holiday, error) {
	fh.mu.RLock()
	loaded := fh.loaded
	fh.mu.RUnlock()

	if !loaded {
		if err := fh.Load(); err != nil {
			return nil, err
		}
	}

	fh.mu.RLock()
	defer fh.mu.RUnlock()
	return InRange(fh.holidays, from, to), nil
}

// ParseHolidayList reads one holiday per line.
// Format: YYYY-MM-DD type name
// Example: 2025-12-25 national Christmas Day
// Blank lines and lines starting with # are skipped; malformed lines are logged and skipped.
func ParseHolidayList(r io.Reader, logger *zap.Logger) ([]Holiday, error) {
	scanner := bufio.NewScanner(r)
	var holidays []Holiday

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 3 {
			logger.Warn("Invalid line format", zap.Int("line", lineNo), zap.String("text", line))
			continue
		}

		date, err := dateutil.ParseDate(parts[0])
		if err != nil {
			logger.Warn("Failed to parse date", zap.Int("line", lineNo), zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		holidayType, err := ParseHolidayType(parts[1])
		if err != nil {
			logger.Warn("Unknown holiday type", zap.Int("line", lineNo), zap.String("type", parts[1]))
			continue
		}

		holidays = append(holidays, Holiday{
			Date: date,
			Type: holidayType,
			Name: strings.Join(parts[2:], " "),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}
