package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/attendance-muster/internal/muster"
	"github.com/username/attendance-muster/pkg/dateutil"
)

func reconcileCmd() *cobra.Command {
	var (
		employeeID  int64
		date        string
		status      string
		checkIn     string
		checkOut    string
		remarks     string
		allowFuture bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Create or update the attendance record of one working day",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			// unset flags leave stored values untouched
			fields := muster.Fields{Status: status}
			if cmd.Flags().Changed("check-in") {
				fields.CheckIn = &checkIn
			}
			if cmd.Flags().Changed("check-out") {
				fields.CheckOut = &checkOut
			}
			if cmd.Flags().Changed("remarks") {
				fields.Remarks = &remarks
			}

			var extra []muster.Option
			if allowFuture {
				extra = append(extra, muster.AllowFuture())
			}
			r := muster.NewReconciler(b.records, b.reconcileCalendar(), logger, b.options(extra...)...)

			rec, err := r.ReconcileDay(cmd.Context(), employeeID, d, fields)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Employee %d, %s: %s (%s)\n", rec.EmployeeID, rec.Date, rec.Status, rec.Status.Code())
			if rec.CheckIn != nil || rec.CheckOut != nil {
				fmt.Fprintf(out, "  In: %s  Out: %s\n", deref(rec.CheckIn), deref(rec.CheckOut))
			}
			if rec.Remarks != nil {
				fmt.Fprintf(out, "  Remarks: %s\n", *rec.Remarks)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&employeeID, "employee", 0, "Employee id")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Present, Absent, HalfDay, Late, EarlyLeave, OnLeave or Holiday")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "Check-in time HH:MM (empty clears)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "Check-out time HH:MM (empty clears)")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Free-text remarks (empty clears)")
	cmd.Flags().BoolVar(&allowFuture, "allow-future", false, "Allow records for dates after today")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
