package cli

import (
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// App holds the services used by CLI commands.
type App struct {
	Attendance attendance.AttendanceService
	Reports    report.ReportService
	JWT        jwt.Service

	// IsTerminal reports whether stdout is a terminal. Tables are drawn
	// only for terminals; everything else gets CSV.
	IsTerminal func() bool
}

// NewRootCmd creates the top-level "presencectl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "presencectl",
		Short:         "Worked hours and overtime from the attendance log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("csv", false, "Write CSV even when stdout is a terminal")

	root.AddCommand(
		newHoursCmd(app),
		newWeekCmd(app),
		newRangeCmd(app),
		newTeamCmd(app),
		newExportCmd(app),
		newTokenCmd(app),
	)

	return root
}
