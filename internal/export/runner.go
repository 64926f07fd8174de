package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nearActivity/internal/model"
	"nearActivity/internal/storage"
)

// ActivitySource returns pages of an account's activity feed.
type ActivitySource interface {
	GetAccountActivity(ctx context.Context, accountID string, pageSize int, cursor *uint64) (model.ActivityPage, error)
}

// RunConfig holds runtime settings for an export.
type RunConfig struct {
	AccountID         string
	PageSize          int
	MaxPages          int
	CheckpointPath    string
	CheckpointEnabled bool
}

// Runner walks an account's feed page by page and writes it to a sink.
type Runner struct {
	cfg        RunConfig
	source     ActivitySource
	sink       storage.Sink
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source ActivitySource, sink storage.Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		source:     source,
		sink:       sink,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run exports pages until the feed is exhausted, MaxPages is reached or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("activity source is nil")
	}
	if r.sink == nil {
		return fmt.Errorf("sink is nil")
	}
	if r.cfg.AccountID == "" {
		return fmt.Errorf("account id is required")
	}
	if r.cfg.PageSize <= 0 {
		return fmt.Errorf("page size must be greater than zero")
	}

	state := Checkpoint{AccountID: r.cfg.AccountID}
	cp, ok, err := r.checkpoint.Load()
	if err != nil {
		return err
	}
	if ok && cp.AccountID == r.cfg.AccountID {
		if cp.Done {
			r.logger.Info("nothing to export", zap.String("account_id", cp.AccountID), zap.Int("pages", cp.Pages))
			return nil
		}
		state = cp
		r.logger.Info("resume from checkpoint", zap.String("account_id", cp.AccountID), zap.Int("pages", cp.Pages), zap.Uint64p("cursor", cp.NextCursor))
	} else if ok {
		r.logger.Warn("ignore checkpoint for another account", zap.String("checkpoint_account_id", cp.AccountID), zap.String("account_id", r.cfg.AccountID))
	}

	exported := 0
	for r.cfg.MaxPages <= 0 || exported < r.cfg.MaxPages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		page, err := r.source.GetAccountActivity(ctx, r.cfg.AccountID, r.cfg.PageSize, state.NextCursor)
		if err != nil {
			return fmt.Errorf("get account activity: %w", err)
		}

		if err := r.sink.PutElements(page.Elements); err != nil {
			return fmt.Errorf("store elements: %w", err)
		}

		exported++
		state.Pages++
		state.NextCursor = page.NextCursor
		state.Done = page.NextCursor == nil
		if err := r.checkpoint.Save(state); err != nil {
			return err
		}

		r.logger.Info("page exported",
			zap.String("account_id", r.cfg.AccountID),
			zap.Int("elements", len(page.Elements)),
			zap.Int("pages", state.Pages),
			zap.Uint64p("next_cursor", page.NextCursor),
		)

		if state.Done {
			return nil
		}
	}

	r.logger.Info("max pages reached", zap.Int("max_pages", r.cfg.MaxPages))
	return nil
}
