package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lululau/monthgrid/internal/calendar"
)

const dateLayout = "2006-01-02"

func newGridCmd(a *app) *cobra.Command {
	var bounds bool

	cmd := &cobra.Command{
		Use:   "grid [year] [month]",
		Short: "Print the raw six-week grid as ISO dates",
		Long: `Prints the grid of the current month, or of the given month.

A single argument from 1 to 12 is a month of the current year; anything
else is a year, shown at the current month.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var month, year any
			switch len(args) {
			case 1:
				if n, err := calendar.ParseInt(args[0]); err == nil && (n < 1 || n > 12) {
					year = args[0]
				} else {
					month = args[0]
				}
			case 2:
				year, month = args[0], args[1]
			}
			grid, err := calendar.NewGridFromValues(month, year, a.cfg.Calendar.FirstDayOfWeek, calendar.WithClock(a.now))
			if err != nil {
				return err
			}
			return writeGrid(cmd.OutOrStdout(), grid, bounds)
		},
	}
	cmd.Flags().BoolVarP(&bounds, "bounds", "b", false, "also print month boundaries")
	return cmd
}

func writeGrid(w io.Writer, grid *calendar.Grid, bounds bool) error {
	header := make([]string, 0, calendar.DaysPerWeek)
	for _, wd := range calendar.WeekdayOrder(grid.FirstDayOfWeek()) {
		header = append(header, fmt.Sprintf("%-10s", wd.String()[:3]))
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(header, " "), " ")); err != nil {
		return err
	}

	for row := range grid.Rows() {
		cells := make([]string, len(row))
		for i, day := range row {
			cells[i] = day.Format(dateLayout)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	if !bounds {
		return nil
	}

	rows := []struct {
		label string
		date  time.Time
	}{
		{"first day", grid.FirstDay()},
		{"last day", grid.LastDay()},
		{"first day of month", grid.FirstDayOfMonth()},
		{"last day of month", grid.LastDayOfMonth()},
		{"first day of previous month", grid.FirstDayOfPreviousMonth()},
		{"last day of previous month", grid.LastDayOfPreviousMonth()},
		{"first day of next month", grid.FirstDayOfNextMonth()},
		{"last day of next month", grid.LastDayOfNextMonth()},
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-28s %s\n", r.label+":", r.date.Format(dateLayout)); err != nil {
			return err
		}
	}
	return nil
}
