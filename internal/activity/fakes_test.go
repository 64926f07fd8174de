package activity

import (
	"context"
	"sync"

	"nearActivity/internal/model"
)

// memoryChangeLog serves rows kept newest first, like the account_changes query.
type memoryChangeLog struct {
	rows []model.ChangeLogRow
	err  error

	mu    sync.Mutex
	calls int
}

func (m *memoryChangeLog) FetchChangeLog(_ context.Context, accountID string, limit int, before *uint64) ([]model.ChangeLogRow, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.ChangeLogRow, 0, limit)
	for _, row := range m.rows {
		if before != nil && row.ChangedInBlockTimestamp >= *before {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeReceipts struct {
	records map[string]model.Receipt
	err     error
	fn      func(ctx context.Context, ids []string) (map[string]model.Receipt, error)

	mu        sync.Mutex
	requested [][]string
}

func (f *fakeReceipts) FetchReceipts(ctx context.Context, ids []string) (map[string]model.Receipt, error) {
	f.mu.Lock()
	f.requested = append(f.requested, append([]string(nil), ids...))
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(ctx, ids)
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]model.Receipt, len(ids))
	for _, id := range ids {
		if rec, ok := f.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

type fakeTransactions struct {
	records map[string]model.Transaction
	err     error
	fn      func(ctx context.Context, hashes []string) (map[string]model.Transaction, error)

	mu        sync.Mutex
	requested [][]string
}

func (f *fakeTransactions) FetchTransactions(ctx context.Context, hashes []string) (map[string]model.Transaction, error) {
	f.mu.Lock()
	f.requested = append(f.requested, append([]string(nil), hashes...))
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(ctx, hashes)
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]model.Transaction, len(hashes))
	for _, hash := range hashes {
		if rec, ok := f.records[hash]; ok {
			out[hash] = rec
		}
	}
	return out, nil
}

func txRow(ts uint64, hash string) model.ChangeLogRow {
	return model.ChangeLogRow{
		AffectedAccountID:            "alice.near",
		ChangedInBlockTimestamp:      ts,
		ChangedInBlockHash:           "block-tx",
		UpdateReason:                 model.ReasonTransactionProcessing,
		CausedByTransactionHash:      hash,
		AffectedAccountStakedBalance: "0",
	}
}

func receiptRow(ts uint64, id string) model.ChangeLogRow {
	return model.ChangeLogRow{
		AffectedAccountID:            "alice.near",
		ChangedInBlockTimestamp:      ts,
		ChangedInBlockHash:           "block-receipt",
		UpdateReason:                 model.ReasonReceiptProcessing,
		CausedByReceiptID:            id,
		AffectedAccountStakedBalance: "0",
	}
}

func migrationRow(ts uint64) model.ChangeLogRow {
	return model.ChangeLogRow{
		AffectedAccountID:            "alice.near",
		ChangedInBlockTimestamp:      ts,
		ChangedInBlockHash:           "block-migration",
		UpdateReason:                 model.ReasonMigration,
		AffectedAccountStakedBalance: "0",
	}
}

func validatorRow(ts uint64, blockHash, staked string) model.ChangeLogRow {
	return model.ChangeLogRow{
		AffectedAccountID:            "alice.near",
		ChangedInBlockTimestamp:      ts,
		ChangedInBlockHash:           blockHash,
		UpdateReason:                 model.ReasonValidatorAccountsUpdate,
		AffectedAccountStakedBalance: staked,
	}
}

func transfer(amount string) model.Action {
	return model.Action{Kind: model.ActionTransfer, Deposit: amount}
}
