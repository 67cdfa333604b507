package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abduss/storeit/internal/config"
	"github.com/abduss/storeit/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const checkTimeout = 10 * time.Second

var skipConnectivity bool

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate configuration and backend connectivity",
	Long: `Validate the environment configuration, then try to reach PostgreSQL and
the MinIO bucket. Exits non-zero when anything is wrong.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		out := cmd.OutOrStdout()
		result := cfg.Validate()
		printSettings(out, cfg)

		if result.Valid && !skipConnectivity {
			ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
			defer cancel()
			result.Errors = append(result.Errors, checkBackends(ctx, cfg)...)
			result.Valid = len(result.Errors) == 0
		}

		printResult(out, result)
		if !result.Valid {
			return errors.New("configuration check failed")
		}
		return nil
	},
}

func init() {
	checkConfigCmd.Flags().BoolVar(&skipConnectivity, "offline", false, "skip PostgreSQL and MinIO connectivity checks")
}

func checkBackends(ctx context.Context, cfg config.Config) []string {
	var problems []string

	pool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		problems = append(problems, fmt.Sprintf("cannot reach PostgreSQL at %s:%d: %v", cfg.Postgres.Host, cfg.Postgres.Port, err))
	} else {
		pool.Close()
	}

	client, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid MinIO settings: %v", err))
		return problems
	}
	if err := storage.CheckBucket(ctx, client, cfg.MinIO.Bucket); err != nil {
		problems = append(problems, fmt.Sprintf("cannot access storage bucket: %v", err))
	}
	return problems
}

func printSettings(out io.Writer, cfg config.Config) {
	fmt.Fprintf(out, "Listen address:   %s\n", cfg.Server.Address())
	fmt.Fprintf(out, "PostgreSQL:       %s@%s:%d/%s\n", cfg.Postgres.User, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
	fmt.Fprintf(out, "MinIO bucket:     %s (%s)\n", cfg.MinIO.Bucket, cfg.MinIO.Endpoint)
	fmt.Fprintf(out, "Max upload size:  %s\n", humanize.IBytes(uint64(max(cfg.Storage.MaxUploadBytes, 0))))
	fmt.Fprintf(out, "Per-user quota:   %s\n", humanize.IBytes(uint64(max(cfg.Storage.QuotaBytes, 0))))
	fmt.Fprintln(out)
}

func printResult(out io.Writer, result config.ValidationResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen, color.Bold)

	for _, e := range result.Errors {
		red.Fprintf(out, "error:   %s\n", e)
	}
	for _, w := range result.Warnings {
		yellow.Fprintf(out, "warning: %s\n", w)
	}
	if result.Valid {
		green.Fprintln(out, "configuration OK")
	}
}
