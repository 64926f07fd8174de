package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "explorer",
		Short:        "Account activity feed for the NEAR indexer database",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the activity HTTP API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("pg-dsn", "", "indexer Postgres DSN")
	serveCmd.Flags().String("rpc", "", "optional node JSON-RPC URL")
	serveCmd.Flags().Int("default-page-size", 20, "page size when limit is not given")
	serveCmd.Flags().Int("max-page-size", 100, "largest accepted limit")
	serveCmd.Flags().Int("max-retries", 3, "maximum query retry attempts")
	serveCmd.Flags().Duration("retry-backoff", 200*time.Millisecond, "initial retry backoff")
	serveCmd.Flags().Duration("request-timeout", 10*time.Second, "per-request timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{"*"}, "allowed CORS origins (comma-separated)")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export an account's activity feed to JSONL",
		RunE:  runExport,
	}

	exportCmd.Flags().String("pg-dsn", "", "indexer Postgres DSN")
	exportCmd.Flags().String("account", "", "account id to export")
	exportCmd.Flags().Int("page-size", 20, "elements requested per page")
	exportCmd.Flags().Int("max-pages", 0, "stop after this many pages, 0 means all")
	exportCmd.Flags().String("out", "./data/activity.jsonl", "output JSONL path")
	exportCmd.Flags().String("checkpoint", "./data/export_checkpoint.json", "checkpoint file path")
	exportCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	exportCmd.Flags().Int("max-retries", 3, "maximum query retry attempts")
	exportCmd.Flags().Duration("retry-backoff", 200*time.Millisecond, "initial retry backoff")
	exportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(exportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
