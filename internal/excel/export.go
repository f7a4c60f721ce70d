package excel

import (
	"fmt"
	"io"

	"github.com/username/attendance-muster/internal/muster"
	"github.com/xuri/excelize/v2"
)

const (
	MusterSheet  = "Muster"
	SummarySheet = "Summary"
)

var totalsHeader = []string{"P", "A", "HD", "L", "EL", "OL", "H", "Missing"}

// WriteMuster renders m as a workbook with a grid sheet and a summary sheet
func WriteMuster(m *muster.Muster, w io.Writer) error {
	f, err := newWorkbook(m)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveMuster writes the workbook of m to path
func SaveMuster(m *muster.Muster, path string) error {
	f, err := newWorkbook(m)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func newWorkbook(m *muster.Muster) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := writeGrid(f, m); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, m); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func writeGrid(f *excelize.File, m *muster.Muster) error {
	index, err := f.NewSheet(MusterSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []interface{}{"Code", "Employee", "Department"}
	for _, d := range m.Days {
		header = append(header, fmt.Sprintf("%d %s", d.Number, d.Weekday.String()[:3]))
	}
	for _, h := range totalsHeader {
		header = append(header, h)
	}
	setRow(f, MusterSheet, 1, header)

	for r, row := range m.Rows {
		values := []interface{}{row.Employee.Code, row.Employee.DisplayName(), row.Employee.Department}
		for _, c := range row.Cells {
			values = append(values, c.Code)
		}
		s := row.Summary
		values = append(values, s.Present, s.Absent, s.HalfDay, s.Late, s.EarlyLeave, s.OnLeave, s.Holiday, s.Missing)
		setRow(f, MusterSheet, r+2, values)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	firstDay, _ := excelize.ColumnNumberToName(4)
	lastDay, _ := excelize.ColumnNumberToName(3 + len(m.Days))

	_ = f.SetColWidth(MusterSheet, "A", "A", 10)
	_ = f.SetColWidth(MusterSheet, "B", "B", 28)
	_ = f.SetColWidth(MusterSheet, "C", "C", 18)
	if len(m.Days) > 0 {
		_ = f.SetColWidth(MusterSheet, firstDay, lastDay, 7)
	}
	_ = f.SetPanes(MusterSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      3,
		YSplit:      1,
		TopLeftCell: "D2",
		ActivePane:  "bottomRight",
	})

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(MusterSheet, "A1", lastCol+"1", style)

	return nil
}

func writeSummary(f *excelize.File, m *muster.Muster) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	st := m.Stats
	rows := [][]interface{}{
		{"Month", fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))},
		{"Total employees", st.TotalEmployees},
		{"Present", st.Present},
		{"Absent", st.Absent},
		{"Half day", st.HalfDay},
		{"Late", st.Late},
		{"Early leave", st.EarlyLeave},
		{"On leave", st.OnLeave},
		{"Holiday", st.Holiday},
	}
	for i, values := range rows {
		setRow(f, SummarySheet, i+1, values)
	}

	start := len(rows) + 2
	setRow(f, SummarySheet, start, []interface{}{"Date", "Holiday", "Type"})
	for i, h := range m.Holidays {
		setRow(f, SummarySheet, start+i+1, []interface{}{h.Date.String(), h.Name, string(h.Type)})
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 18)
	_ = f.SetColWidth(SummarySheet, "B", "B", 28)
	_ = f.SetColWidth(SummarySheet, "C", "C", 12)

	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), style)
	headerCell := fmt.Sprintf("A%d", start)
	_ = f.SetCellStyle(SummarySheet, headerCell, fmt.Sprintf("C%d", start), style)

	return nil
}
