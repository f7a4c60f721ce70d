package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/pkg/dateutil"
	"go.uber.org/zap"
)

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage holidays",
	}
	cmd.AddCommand(holidaysImportCmd(), holidaysSyncCmd(), holidaysListCmd())
	return cmd
}

func holidaysImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import holidays from a text file (YYYY-MM-DD type name)",
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

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open holiday file: %w", err)
			}
			defer f.Close()

			holidays, err := calendar.ParseHolidayList(f, logger)
			if err != nil {
				return err
			}

			n, err := store.SaveHolidays(cmd.Context(), holidays)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d holiday(s) from %s\n", n, file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Holiday list file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func holidaysSyncCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch public holidays from the isdayoff feed into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("month must be 1-12, got %d", month)
			}

			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			store, err := b.requireStore()
			if err != nil {
				return err
			}

			if year == 0 {
				year = dateutil.Today(b.location).Year
			}
			from := dateutil.FirstOfMonth(year, time.January)
			to := dateutil.LastOfMonth(year, time.December)
			if month != 0 {
				from = dateutil.FirstOfMonth(year, time.Month(month))
				to = dateutil.LastOfMonth(year, time.Month(month))
			}

			feed := calendar.NewIsDayOffFeed(cfg.Calendar.IsDayOffURL, cfg.Calendar.Country, cfg.Calendar.GetCacheTTL(), logger)
			holidays, err := feed.Holidays(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			n, err := store.SaveHolidays(cmd.Context(), holidays)
			if err != nil {
				return err
			}

			logger.Info("Holidays synced",
				zap.Stringer("from", from),
				zap.Stringer("to", to),
				zap.Int("count", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d holiday(s) for %s .. %s\n", n, from, to)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: whole year)")
	return cmd
}

func holidaysListCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the holidays of a month",
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
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be 1-12, got %d", month)
			}

			from := dateutil.FirstOfMonth(year, time.Month(month))
			to := dateutil.LastOfMonth(year, time.Month(month))
			holidays, err := b.holidays.Holidays(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(holidays) == 0 {
				fmt.Fprintf(out, "No holidays in %04d-%02d\n", year, month)
				return nil
			}
			for _, h := range holidays {
				fmt.Fprintf(out, "%s  %-9s  %s\n", h.Date, h.Type, h.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current)")
	return cmd
}

func weekendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekend",
		Short: "Manage weekend days",
	}
	cmd.AddCommand(weekendSetCmd(), weekendShowCmd())
	return cmd
}

// parseWeekendArgs reads "N:Label" pairs; N is 0 (Sunday) .. 6 (Saturday)
func parseWeekendArgs(args []string) ([]calendar.WeekendConfig, error) {
	configs := make([]calendar.WeekendConfig, 0, len(args))
	for _, arg := range args {
		num, label, found := strings.Cut(arg, ":")
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil || !calendar.ValidWeekday(n) {
			return nil, fmt.Errorf("invalid weekday %q (want 0-6)", num)
		}
		label = strings.TrimSpace(label)
		if !found || label == "" {
			label = time.Weekday(n).String()
		}
		configs = append(configs, calendar.WeekendConfig{Weekday: n, Label: label})
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Weekday < configs[j].Weekday })
	return configs, nil
}

func weekendSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set N[:Label]...",
		Short: "Replace the weekend days (0=Sunday .. 6=Saturday)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := parseWeekendArgs(args)
			if err != nil {
				return err
			}

			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			store, err := b.requireStore()
			if err != nil {
				return err
			}
			if err := store.SetWeekend(cmd.Context(), configs); err != nil {
				return err
			}

			for _, c := range configs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", c.Weekday, c.Label)
			}
			return nil
		},
	}
}

func weekendShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the weekend days",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer b.close()

			configs, err := b.calendar.WeekendConfigs(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(configs) == 0 {
				fmt.Fprintln(out, "No weekend configured, using Saturday and Sunday")
				configs = calendar.DefaultWeekend
			}
			for _, c := range configs {
				fmt.Fprintf(out, "%d  %s\n", c.Weekday, c.Label)
			}
			return nil
		},
	}
}
