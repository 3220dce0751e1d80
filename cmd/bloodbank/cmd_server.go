package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/internal/kernel"
	"github.com/shashiranjanraj/bloodbank/internal/server"
	"github.com/shashiranjanraj/bloodbank/pkg/cache"
	"github.com/shashiranjanraj/bloodbank/pkg/database"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

// bloodbank serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		if err := cache.Connect(cmd.Context()); err != nil {
			logger.Warn("redis unavailable, dashboard counts will not be cached", "error", err)
		}
		defer cache.Close() //nolint:errcheck

		k := kernel.NewHTTPKernel(repositories.NewStore(database.DB))
		srv := server.New(":"+config.AppPort(), k.Handler())
		return server.Run(cmd.Context(), srv)
	},
}

// bloodbank route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := kernel.NewHTTPKernel(repositories.NewStore(nil))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Router().Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
