package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/attendance-muster/internal/excel"
	"github.com/username/attendance-muster/internal/muster"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

func buildCmd() *cobra.Command {
	var (
		year        int
		month       int
		employeeIDs []int64
		department  string
		xlsxPath    string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the attendance muster of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			today := dateutil.Today(b.location)
			if year == 0 {
				year = today.Year
			}
			if month == 0 {
				month = int(today.Month)
			}

			svc := muster.NewService(b.source, logger, b.options()...)
			m, err := svc.BuildMonthlyMuster(cmd.Context(), year, time.Month(month), muster.Filter{
				EmployeeIDs: employeeIDs,
				Department:  department,
			})
			if err != nil {
				return err
			}

			printMuster(cmd.OutOrStdout(), m)

			if xlsxPath != "" {
				if err := excel.SaveMuster(m, xlsxPath); err != nil {
					return err
				}
				logger.Info("Muster exported", zap.String("file", xlsxPath))
				fmt.Fprintf(cmd.OutOrStdout(), "\nSaved to %s\n", xlsxPath)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current)")
	cmd.Flags().Int64SliceVar(&employeeIDs, "employee", nil, "Restrict to employee id (repeatable)")
	cmd.Flags().StringVar(&department, "department", "", "Restrict to department")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the muster to this XLSX file")

	return cmd
}

func printMuster(w io.Writer, m *muster.Muster) {
	fmt.Fprintf(w, "Attendance muster %04d-%02d\n\n", m.Year, int(m.Month))

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	header := []string{"Code", "Employee"}
	for _, d := range m.Days {
		header = append(header, fmt.Sprintf("%d", d.Number))
	}
	header = append(header, "P", "A", "HD", "L", "EL", "OL", "H", "Missing")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	weekdays := []string{"", ""}
	for _, d := range m.Days {
		weekdays = append(weekdays, d.Weekday.String()[:2])
	}
	fmt.Fprintln(tw, strings.Join(weekdays, "\t"))

	for _, row := range m.Rows {
		line := []string{row.Employee.Code, row.Employee.DisplayName()}
		for _, c := range row.Cells {
			line = append(line, c.Code)
		}
		s := row.Summary
		for _, n := range []int{s.Present, s.Absent, s.HalfDay, s.Late, s.EarlyLeave, s.OnLeave, s.Holiday, s.Missing} {
			line = append(line, fmt.Sprintf("%d", n))
		}
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
	tw.Flush()

	st := m.Stats
	fmt.Fprintf(w, "\nEmployees: %d  Present: %d  Absent: %d  Half day: %d  Late: %d  Early leave: %d  On leave: %d  Holiday: %d\n",
		st.TotalEmployees, st.Present, st.Absent, st.HalfDay, st.Late, st.EarlyLeave, st.OnLeave, st.Holiday)

	if len(m.Holidays) > 0 {
		fmt.Fprintln(w, "\nHolidays:")
		for _, h := range m.Holidays {
			fmt.Fprintf(w, "  %s  %s\n", h.Date, h.Name)
		}
	}

	if n := len(m.Diagnostics.Rejected); n > 0 || m.Diagnostics.Duplicates > 0 {
		fmt.Fprintf(w, "\nWarning: %d attendance row(s) rejected, %d duplicate(s) replaced\n", n, m.Diagnostics.Duplicates)
	}
}
