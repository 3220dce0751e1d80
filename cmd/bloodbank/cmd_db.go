package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/database/seeders"
	"github.com/shashiranjanraj/bloodbank/pkg/database"
	"github.com/shashiranjanraj/bloodbank/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// bloodbank migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		ran, err := migration.New(database.DB).Run()
		if err != nil {
			return err
		}
		report(cmd, "Migrated", ran, "Nothing to migrate.")
		return nil
	},
}

// bloodbank migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		rolled, err := migration.New(database.DB).Rollback()
		if err != nil {
			return err
		}
		report(cmd, "Rolled back", rolled, "Nothing to roll back.")
		return nil
	},
}

// bloodbank migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		statuses, err := migration.New(database.DB).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN?\tMIGRATION\tBATCH")
		for _, s := range statuses {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, s.Name, batch)
		}
		return w.Flush()
	},
}

// bloodbank seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed blood groups and the bootstrap admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		ran, err := seeders.RunAll(cmd.Context(), database.DB)
		if err != nil {
			return err
		}
		report(cmd, "Seeded", ran, "No seeders registered.")
		return nil
	},
}

func report(cmd *cobra.Command, verb string, names []string, empty string) {
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, n := range names {
		fmt.Fprintf(out, "%s: %s\n", verb, n)
	}
}
