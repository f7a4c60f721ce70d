package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/attendance-muster/internal/excel"
)

func employeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage the employee directory",
	}

	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import employees from an XLSX file (id, code, first, last, department, designation)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			store, err := b.requireStore()
			if err != nil {
				return err
			}

			employees, err := excel.ReadEmployees(file, logger)
			if err != nil {
				return err
			}
			n, err := store.UpsertEmployees(cmd.Context(), employees)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d employee(s) from %s\n", n, file)
			return nil
		},
	}
	importCmd.Flags().StringVar(&file, "file", "", "XLSX file")
	_ = importCmd.MarkFlagRequired("file")

	cmd.AddCommand(importCmd)
	return cmd
}

func attendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Manage attendance records",
	}

	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import attendance rows from an XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			store, err := b.requireStore()
			if err != nil {
				return err
			}

			rows, err := excel.ReadAttendance(file, logger)
			if err != nil {
				return err
			}
			result, err := store.ImportAttendance(cmd.Context(), rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d attendance row(s) from %s\n", result.Imported, file)
			for _, rej := range result.Rejected {
				fmt.Fprintf(out, "  rejected entry %d (employee %s, %s): %s\n", rej.Row+1, rej.EmployeeID, rej.Date, rej.Reason)
			}
			return nil
		},
	}
	importCmd.Flags().StringVar(&file, "file", "", "XLSX file")
	_ = importCmd.MarkFlagRequired("file")

	cmd.AddCommand(importCmd)
	return cmd
}
