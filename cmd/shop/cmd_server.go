package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kashvi-shop/app/bootstrap"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// shop serve <service>
var serveCmd = &cobra.Command{
	Use:       "serve <service>",
	Short:     "Start one service's HTTP server",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Services(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := bootstrap.Build(ctx, name)
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.Error("close resources", "error", err)
			}
		}()

		return svc.Serve(ctx, ":"+config.AppPort(name))
	},
}

var routeListService string

// shop route:list --service <service>
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List a service's routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing routes needs no database.
		if err := os.Setenv("DB_DRIVER", "memory"); err != nil {
			return err
		}

		svc, err := bootstrap.Build(cmd.Context(), routeListService)
		if err != nil {
			return err
		}
		defer svc.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range svc.RouteList() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	routeListCmd.Flags().StringVar(&routeListService, "service", config.ServiceFrontend, "service to inspect")
}
