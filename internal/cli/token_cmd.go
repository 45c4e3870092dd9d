package cli

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	var name, role string

	cmd := &cobra.Command{
		Use:   "token <person-id>",
		Short: "Mint an API access token for a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validator.IsInSlice(role, attendance.RoleValues) {
				return fmt.Errorf("role must be one of: %s", strings.Join(attendance.RoleValues, ", "))
			}
			if name == "" {
				name = args[0]
			}

			token, _, err := app.JWT.GenerateAccessToken(args[0], name, attendance.Role(role))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the person ID)")
	cmd.Flags().StringVar(&role, "role", string(attendance.RoleEmployee), "employee or manager")

	return cmd
}
