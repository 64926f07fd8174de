package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"nearActivity/internal/model"
)

// Options controls connection and retry behavior of the Store.
type Options struct {
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

// Store reads account changes, receipts and transactions from the indexer database.
type Store struct {
	pool   *pgxpool.Pool
	opts   Options
	logger *zap.Logger
}

func NewStore(ctx context.Context, dsn string, opts Options) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, opts: opts, logger: logger}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const changeLogColumns = `
	affected_account_id,
	changed_in_block_timestamp::text,
	changed_in_block_hash,
	update_reason::text,
	COALESCE(caused_by_receipt_id, ''),
	COALESCE(caused_by_transaction_hash, ''),
	COALESCE(affected_account_staked_balance::text, '')
`

// FetchChangeLog returns up to limit account changes, most recent first,
// strictly older than before when it is set.
func (s *Store) FetchChangeLog(ctx context.Context, accountID string, limit int, before *uint64) ([]model.ChangeLogRow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	query := `SELECT ` + changeLogColumns + `
		FROM account_changes
		WHERE affected_account_id = $1
		ORDER BY changed_in_block_timestamp DESC, index_in_block DESC
		LIMIT $2`
	args := []any{accountID, limit}
	if before != nil {
		query = `SELECT ` + changeLogColumns + `
			FROM account_changes
			WHERE affected_account_id = $1 AND changed_in_block_timestamp < $3::text::numeric
			ORDER BY changed_in_block_timestamp DESC, index_in_block DESC
			LIMIT $2`
		args = append(args, formatUint(*before))
	}

	var out []model.ChangeLogRow
	err := s.withRetry(ctx, "account_changes", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var raw changeLogRecord
			if err := rows.Scan(
				&raw.AccountID,
				&raw.Timestamp,
				&raw.BlockHash,
				&raw.UpdateReason,
				&raw.ReceiptID,
				&raw.TransactionHash,
				&raw.StakedBalance,
			); err != nil {
				return err
			}
			row, err := raw.toModel()
			if err != nil {
				return permanent(err)
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query account changes: %w", err)
	}
	return out, nil
}

// FetchReceipts returns receipts with their actions, keyed by receipt id.
func (s *Store) FetchReceipts(ctx context.Context, ids []string) (map[string]model.Receipt, error) {
	if len(ids) == 0 {
		return map[string]model.Receipt{}, nil
	}

	const query = `
		SELECT
			r.receipt_id,
			r.predecessor_account_id,
			r.receiver_account_id,
			r.included_in_block_timestamp::text,
			r.originated_from_transaction_hash,
			a.action_kind::text,
			a.args::text
		FROM receipts r
		LEFT JOIN action_receipt_actions a ON a.receipt_id = r.receipt_id
		WHERE r.receipt_id = ANY($1)
		ORDER BY r.receipt_id, a.index_in_action_receipt
	`

	var records []actionRecord
	err := s.withRetry(ctx, "receipts", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query, ids)
		if err != nil {
			return err
		}
		defer rows.Close()

		records = records[:0]
		for rows.Next() {
			var rec actionRecord
			if err := rows.Scan(
				&rec.ID,
				&rec.SignerID,
				&rec.ReceiverID,
				&rec.Timestamp,
				&rec.TransactionHash,
				&rec.Kind,
				&rec.Args,
			); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	return collectReceipts(records)
}

// FetchTransactions returns transactions with their actions, keyed by hash.
func (s *Store) FetchTransactions(ctx context.Context, hashes []string) (map[string]model.Transaction, error) {
	if len(hashes) == 0 {
		return map[string]model.Transaction{}, nil
	}

	const query = `
		SELECT
			t.transaction_hash,
			t.signer_account_id,
			t.receiver_account_id,
			t.block_timestamp::text,
			t.transaction_hash,
			a.action_kind::text,
			a.args::text
		FROM transactions t
		LEFT JOIN transaction_actions a ON a.transaction_hash = t.transaction_hash
		WHERE t.transaction_hash = ANY($1)
		ORDER BY t.transaction_hash, a.index_in_transaction
	`

	var records []actionRecord
	err := s.withRetry(ctx, "transactions", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, query, hashes)
		if err != nil {
			return err
		}
		defer rows.Close()

		records = records[:0]
		for rows.Next() {
			var rec actionRecord
			if err := rows.Scan(
				&rec.ID,
				&rec.SignerID,
				&rec.ReceiverID,
				&rec.Timestamp,
				&rec.TransactionHash,
				&rec.Kind,
				&rec.Args,
			); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	return collectTransactions(records)
}

func (s *Store) withRetry(ctx context.Context, table string, fn func(context.Context) error) error {
	return withRetry(ctx, s.opts.MaxRetries, s.opts.RetryBackoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("query failed", zap.String("table", table), zap.Error(err))
		}
		return err
	})
}
