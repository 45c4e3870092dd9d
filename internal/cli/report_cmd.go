package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	var date string
	var month, year int

	cmd := &cobra.Command{
		Use:   "team",
		Short: "Show every person's totals for a week or a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rep report.TeamReport
				err error
			)

			if cmd.Flags().Changed("month") {
				if !cmd.Flags().Changed("year") {
					year = time.Now().Year()
				}
				rep, err = app.Reports.TeamMonth(cmd.Context(), report.TeamMonthRequest{Month: month, Year: year})
			} else {
				req := report.TeamWeekRequest{}
				if date != "" {
					req.Date = &date
				}
				rep, err = app.Reports.TeamWeek(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			t := newTable(cmd, table.Row{"Person ID", "Name", "Normal", "Overtime"})
			for _, p := range rep.People {
				t.AppendRow(table.Row{p.PersonID, p.Name, p.Total.Normal, p.Total.Overtime})
			}
			t.AppendFooter(table.Row{"Total", rep.StartDate + ".." + rep.EndDate, rep.Total.Normal, rep.Total.Overtime})
			app.render(cmd, t)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&month, "month", 0, "Report a calendar month instead of a week (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "Year of --month (default current year)")

	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var format, date string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an export file to storage",
	}

	cmd.PersistentFlags().StringVar(&format, "format", "csv", "csv or json")

	events := &cobra.Command{
		Use:   "events",
		Short: "Dump the raw event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Reports.ExportEvents(cmd.Context(), report.ExportRequest{Format: format})
			if err != nil {
				return err
			}
			printExport(cmd, resp)
			return nil
		},
	}

	teamWeek := &cobra.Command{
		Use:   "team-week",
		Short: "Write the team weekly report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := report.ExportRequest{Format: format}
			if date != "" {
				req.Date = &date
			}
			resp, err := app.Reports.ExportTeamWeek(cmd.Context(), req)
			if err != nil {
				return err
			}
			printExport(cmd, resp)
			return nil
		},
	}
	teamWeek.Flags().StringVar(&date, "date", "", "Any day of the week (YYYY-MM-DD, default today)")

	cmd.AddCommand(events, teamWeek)

	return cmd
}

func printExport(cmd *cobra.Command, resp report.ExportResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported %d rows to %s\n", resp.Rows, resp.Path)
	fmt.Fprintln(out, resp.URL)
}
