package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nearActivity/internal/activity"
	"nearActivity/internal/api"
	"nearActivity/internal/config"
	"nearActivity/internal/export"
	"nearActivity/internal/storage"
	"nearActivity/internal/storage/postgres"
)

func runExport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if cfg.Account == "" {
		return fmt.Errorf("account is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN, postgres.Options{
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %s", api.SanitizeError(err))
	}
	defer store.Close()

	reconstructor := activity.NewReconstructor(store, store, store, logger)
	sink := storage.NewJsonlStorage(cfg.Out)

	runner := export.NewRunner(export.RunConfig{
		AccountID:         cfg.Account,
		PageSize:          cfg.PageSize,
		MaxPages:          cfg.MaxPages,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, reconstructor, sink, logger)

	logger.Info("explorer export start",
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("account", cfg.Account),
		zap.Int("page_size", cfg.PageSize),
		zap.Int("max_pages", cfg.MaxPages),
		zap.String("out", cfg.Out),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	return runner.Run(ctx)
}
