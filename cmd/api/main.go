package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storeit",
	Short: "StoreIt API - file storage with usage dashboards",
	Long: `StoreIt serves uploads, browsing and storage usage over HTTP, backed by
PostgreSQL for metadata and MinIO for file contents. Without a subcommand it
runs the API server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkConfigCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
