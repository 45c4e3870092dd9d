package cli

import (
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours <person-id>",
		Short: "Show all-time, current week and two-month totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := app.Attendance.MyHours(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			t := newTable(cmd, table.Row{"Period", "From", "To", "Normal", "Overtime"})
			t.AppendRow(table.Row{"All time", "", "", hours.AllTime.Normal, hours.AllTime.Overtime})
			t.AppendRow(table.Row{"Current week", hours.CurrentWeek.StartDate, hours.CurrentWeek.EndDate, hours.CurrentWeek.Total.Normal, hours.CurrentWeek.Total.Overtime})
			t.AppendRow(table.Row{"Two months", hours.TwoMonths.StartDate, hours.TwoMonths.EndDate, hours.TwoMonths.Total.Normal, hours.TwoMonths.Total.Overtime})
			app.render(cmd, t)
			return nil
		},
	}
}

func newWeekCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week <person-id>",
		Short: "Show the per-day breakdown of a week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := attendance.WeekRequest{PersonID: args[0]}
			if date != "" {
				req.Date = &date
			}

			period, err := app.Attendance.WeekSummary(cmd.Context(), req)
			if err != nil {
				return err
			}

			app.renderPeriod(cmd, period)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week (YYYY-MM-DD, default today)")

	return cmd
}

func newRangeCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "range <person-id>",
		Short: "Show the per-day breakdown of a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := app.Attendance.RangeReport(cmd.Context(), attendance.RangeRequest{
				PersonID:  args[0],
				StartDate: from,
				EndDate:   to,
			})
			if err != nil {
				return err
			}

			app.renderPeriod(cmd, period)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, exclusive)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
