package cli

import (
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTable(cmd *cobra.Command, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(header)
	return t
}

func (app *App) render(cmd *cobra.Command, t table.Writer) {
	forceCSV, _ := cmd.Flags().GetBool("csv")
	if forceCSV || app.IsTerminal == nil || !app.IsTerminal() {
		t.RenderCSV()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// renderPeriod prints one row per worked day and the period total.
func (app *App) renderPeriod(cmd *cobra.Command, period attendance.PeriodResponse) {
	t := newTable(cmd, table.Row{"Date", "Day", "Sessions", "Normal", "Overtime"})
	sessions := 0
	for _, d := range period.Days {
		sessions += d.Sessions
		t.AppendRow(table.Row{d.Date, d.DayOfWeek, strconv.Itoa(d.Sessions), d.Normal, d.Overtime})
	}
	t.AppendFooter(table.Row{"Total", period.StartDate + ".." + period.EndDate, strconv.Itoa(sessions), period.Total.Normal, period.Total.Overtime})
	app.render(cmd, t)
}
