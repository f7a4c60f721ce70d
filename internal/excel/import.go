// Package excel reads employee lists and attendance punch rows from XLSX
// workbooks and writes built musters back out.
package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/attendance-muster/internal/muster"
	"github.com/username/attendance-muster/pkg/dateutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Column order of the attendance import sheet
const (
	colEmployeeID = iota
	colDate
	colCheckIn
	colCheckOut
	colTotalHours
	colOvertimeHours
	colStatus
	colRemarks
)

func firstSheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in excel file")
	}

	// raw values keep date cells as serial numbers instead of locale-formatted text
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ReadEmployees reads the first sheet of path. The header row is skipped;
// columns are id, code, first name, last name, department, designation.
func ReadEmployees(path string, logger *zap.Logger) ([]muster.Employee, error) {
	rows, err := firstSheetRows(path)
	if err != nil {
		return nil, err
	}

	var employees []muster.Employee
	for rowIndex, row := range rows {
		if rowIndex == 0 {
			continue
		}
		if strings.Join(row, "") == "" {
			continue
		}

		id, err := muster.FlexibleID(cell(row, 0)).Int64()
		if err != nil {
			logger.Warn("Skipping employee row with invalid id",
				zap.Int("row", rowIndex+1),
				zap.String("id", cell(row, 0)))
			continue
		}

		employees = append(employees, muster.Employee{
			ID:          id,
			Code:        cell(row, 1),
			FirstName:   cell(row, 2),
			LastName:    cell(row, 3),
			Department:  cell(row, 4),
			Designation: cell(row, 5),
		})
	}

	logger.Info("Employees read from workbook",
		zap.String("file", path),
		zap.Int("count", len(employees)))

	return employees, nil
}

// ReadAttendance reads raw attendance rows from the first sheet of path.
// Identifiers, dates and statuses are left for the record index to
// normalize; only unreadable hour cells cause a row to be skipped here.
func ReadAttendance(path string, logger *zap.Logger) ([]muster.RawRecord, error) {
	rows, err := firstSheetRows(path)
	if err != nil {
		return nil, err
	}

	var records []muster.RawRecord
	for rowIndex, row := range rows {
		if rowIndex == 0 {
			continue
		}
		if strings.Join(row, "") == "" {
			continue
		}

		total, err := parseHours(cell(row, colTotalHours))
		if err != nil {
			logger.Warn("Skipping attendance row with invalid total hours",
				zap.Int("row", rowIndex+1),
				zap.Error(err))
			continue
		}
		overtime, err := parseHours(cell(row, colOvertimeHours))
		if err != nil {
			logger.Warn("Skipping attendance row with invalid overtime hours",
				zap.Int("row", rowIndex+1),
				zap.Error(err))
			continue
		}

		records = append(records, muster.RawRecord{
			EmployeeID:    muster.FlexibleID(cell(row, colEmployeeID)),
			Date:          cellDate(cell(row, colDate)),
			CheckIn:       optional(cellClock(cell(row, colCheckIn))),
			CheckOut:      optional(cellClock(cell(row, colCheckOut))),
			TotalHours:    total,
			OvertimeHours: overtime,
			Status:        cell(row, colStatus),
			Remarks:       optional(cell(row, colRemarks)),
		})
	}

	logger.Info("Attendance rows read from workbook",
		zap.String("file", path),
		zap.Int("count", len(records)))

	return records, nil
}

func parseHours(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// cellDate converts an Excel date serial to ISO text; other text is returned as is
func cellDate(s string) string {
	if _, err := dateutil.ParseDate(s); err == nil {
		return s
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return s
	}
	return dateutil.DateOf(t).String()
}

// cellClock converts an Excel time fraction (0.375 = 09:00) to HH:MM
func cellClock(s string) string {
	frac, err := strconv.ParseFloat(s, 64)
	if err != nil || frac < 0 || frac >= 1 {
		return s
	}
	minutes := int(frac*24*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
