package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/database"
)

// bloodbank user:role <email> <role>
var userRoleCmd = &cobra.Command{
	Use:   "user:role <email> <role>",
	Short: "Set the role of a registered user (donor, requester, staff, admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		users := services.New(repositories.NewStore(database.DB)).Users
		u, err := users.AssignRole(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", u.Email, u.ID, u.Role)
		return nil
	},
}
