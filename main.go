package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziogref/tas-fuel-prices-api/cmd"
)

func main() {
	var dbPath string
	var port int
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "tas-fuel-prices-api",
		Short: "Tasmanian fuel price derivation service",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/tas_fuel_prices.db", "path to the snapshot cache database")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server with scheduled snapshot refreshes",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(dbPath, port, debug)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 8080, "HTTP listen port")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "expose pprof endpoints")

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch both snapshots once and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Refresh(dbPath)
		},
	}

	rootCmd.AddCommand(serveCmd, refreshCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
