package activity

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nearActivity/internal/model"
)

// DefaultPageSize is used when a caller does not pick a page size.
const DefaultPageSize = 20

// ChangeLogSource returns up to limit rows for an account, most recent first,
// strictly older than before when before is set.
type ChangeLogSource interface {
	FetchChangeLog(ctx context.Context, accountID string, limit int, before *uint64) ([]model.ChangeLogRow, error)
}

// ReceiptLookup returns receipts keyed by id. It must cover every requested id.
type ReceiptLookup interface {
	FetchReceipts(ctx context.Context, ids []string) (map[string]model.Receipt, error)
}

// TransactionLookup returns transactions keyed by hash. It must cover every requested hash.
type TransactionLookup interface {
	FetchTransactions(ctx context.Context, hashes []string) (map[string]model.Transaction, error)
}

// Reconstructor builds account activity pages from the change log.
type Reconstructor struct {
	changes      ChangeLogSource
	receipts     ReceiptLookup
	transactions TransactionLookup
	logger       *zap.Logger
}

// NewReconstructor builds a Reconstructor with its collaborators.
func NewReconstructor(changes ChangeLogSource, receipts ReceiptLookup, transactions TransactionLookup, logger *zap.Logger) *Reconstructor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconstructor{
		changes:      changes,
		receipts:     receipts,
		transactions: transactions,
		logger:       logger,
	}
}

// GetAccountActivity returns one page of activity, using DefaultPageSize when pageSize is not positive.
func (r *Reconstructor) GetAccountActivity(ctx context.Context, accountID string, pageSize int, cursor *uint64) (model.ActivityPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return r.ReconstructPage(ctx, accountID, pageSize, cursor)
}

// ReconstructPage builds the page of activity older than cursor.
// Either the whole page is returned or an error; rows that describe nothing
// user-facing are skipped but still count towards the page and the cursor.
func (r *Reconstructor) ReconstructPage(ctx context.Context, accountID string, pageSize int, cursor *uint64) (model.ActivityPage, error) {
	if accountID == "" {
		return model.ActivityPage{}, fmt.Errorf("%w: account id is required", ErrInvalidRequest)
	}
	if pageSize <= 0 {
		return model.ActivityPage{}, fmt.Errorf("%w: page size must be greater than zero", ErrInvalidRequest)
	}

	rows, err := r.changes.FetchChangeLog(ctx, accountID, pageSize, cursor)
	if err != nil {
		return model.ActivityPage{}, fmt.Errorf("fetch change log: %w", upstream(SourceChangeLog, err))
	}
	if len(rows) > pageSize {
		return model.ActivityPage{}, inconsistent("change log returned %d rows for limit %d", len(rows), pageSize)
	}
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return model.ActivityPage{}, inconsistent("%v", err)
		}
	}

	receiptIDs, transactionHashes := partitionCauses(rows)
	receipts, transactions, err := r.lookupCauses(ctx, receiptIDs, transactionHashes)
	if err != nil {
		return model.ActivityPage{}, err
	}

	elements := make([]model.ActivityElement, 0, len(rows))
	for i := range rows {
		element, ok, err := buildElement(rows, i, receipts, transactions)
		if err != nil {
			return model.ActivityPage{}, err
		}
		if ok {
			elements = append(elements, element)
		}
	}

	page := model.ActivityPage{
		Elements:   elements,
		NextCursor: nextCursor(rows, pageSize),
	}

	fields := []zap.Field{
		zap.String("account_id", accountID),
		zap.Int("page_size", pageSize),
		zap.Int("rows", len(rows)),
		zap.Int("elements", len(elements)),
	}
	if page.NextCursor != nil {
		fields = append(fields, zap.Uint64("next_cursor", *page.NextCursor))
	}
	r.logger.Debug("activity page built", fields...)

	return page, nil
}

// lookupCauses fetches receipts and transactions concurrently.
// Both result maps are only read after both lookups finished.
func (r *Reconstructor) lookupCauses(ctx context.Context, receiptIDs, transactionHashes []string) (map[string]model.Receipt, map[string]model.Transaction, error) {
	var (
		receipts     map[string]model.Receipt
		transactions map[string]model.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	if len(receiptIDs) > 0 {
		g.Go(func() error {
			res, err := r.receipts.FetchReceipts(gctx, receiptIDs)
			if err != nil {
				return fmt.Errorf("fetch receipts: %w", upstream(SourceReceipts, err))
			}
			receipts = res
			return nil
		})
	}
	if len(transactionHashes) > 0 {
		g.Go(func() error {
			res, err := r.transactions.FetchTransactions(gctx, transactionHashes)
			if err != nil {
				return fmt.Errorf("fetch transactions: %w", upstream(SourceTransactions, err))
			}
			transactions = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for _, id := range receiptIDs {
		if _, ok := receipts[id]; !ok {
			return nil, nil, inconsistent("receipt %s missing from lookup", id)
		}
	}
	for _, hash := range transactionHashes {
		if _, ok := transactions[hash]; !ok {
			return nil, nil, inconsistent("transaction %s missing from lookup", hash)
		}
	}
	return receipts, transactions, nil
}

// partitionCauses collects distinct receipt ids and transaction hashes in first-seen order.
func partitionCauses(rows []model.ChangeLogRow) ([]string, []string) {
	var receiptIDs, transactionHashes []string
	seenReceipts := make(map[string]struct{})
	seenTransactions := make(map[string]struct{})

	for _, row := range rows {
		switch row.UpdateReason {
		case model.ReasonActionReceiptGasReward, model.ReasonReceiptProcessing:
			if _, ok := seenReceipts[row.CausedByReceiptID]; !ok {
				seenReceipts[row.CausedByReceiptID] = struct{}{}
				receiptIDs = append(receiptIDs, row.CausedByReceiptID)
			}
		case model.ReasonTransactionProcessing:
			if _, ok := seenTransactions[row.CausedByTransactionHash]; !ok {
				seenTransactions[row.CausedByTransactionHash] = struct{}{}
				transactionHashes = append(transactionHashes, row.CausedByTransactionHash)
			}
		case model.ReasonMigration, model.ReasonValidatorAccountsUpdate:
		}
	}
	return receiptIDs, transactionHashes
}

// buildElement turns rows[i] into an element. ok is false for rows that do not produce one.
func buildElement(rows []model.ChangeLogRow, i int, receipts map[string]model.Receipt, transactions map[string]model.Transaction) (model.ActivityElement, bool, error) {
	row := rows[i]
	switch row.UpdateReason {
	case model.ReasonActionReceiptGasReward, model.ReasonReceiptProcessing:
		receipt := receipts[row.CausedByReceiptID]
		action, err := ClassifyActions(receipt.Actions, receipt.OriginatedFromTransactionHash, receipt.SignerID == model.SystemAccountID)
		if err != nil {
			return model.ActivityElement{}, false, fmt.Errorf("receipt %s: %w", receipt.ReceiptID, err)
		}
		return model.ActivityElement{
			From:      receipt.SignerID,
			To:        receipt.ReceiverID,
			Timestamp: receipt.BlockTimestamp,
			Action:    action,
		}, true, nil

	case model.ReasonTransactionProcessing:
		tx := transactions[row.CausedByTransactionHash]
		action, err := ClassifyActions(tx.Actions, tx.Hash, tx.SignerID == model.SystemAccountID)
		if err != nil {
			return model.ActivityElement{}, false, fmt.Errorf("transaction %s: %w", tx.Hash, err)
		}
		return model.ActivityElement{
			From:      tx.SignerID,
			To:        tx.ReceiverID,
			Timestamp: tx.BlockTimestamp,
			Action:    action,
		}, true, nil

	case model.ReasonMigration:
		return model.ActivityElement{}, false, nil

	case model.ReasonValidatorAccountsUpdate:
		// The previous balance comes from the next-older row of this fetch,
		// never from a separate query, so the oldest row of a page has none.
		if i+1 >= len(rows) || !rows[i+1].HasStakedBalance() {
			return model.ActivityElement{}, false, nil
		}
		amount, err := stakedBalanceDelta(row.AffectedAccountStakedBalance, rows[i+1].AffectedAccountStakedBalance)
		if err != nil {
			return model.ActivityElement{}, false, fmt.Errorf("validator reward at %d: %w", row.ChangedInBlockTimestamp, err)
		}
		return model.ActivityElement{
			From:      model.SystemAccountID,
			To:        row.AffectedAccountID,
			Timestamp: row.ChangedInBlockTimestamp,
			Action: model.ActivityAction{
				Type:      model.ActivityValidatorReward,
				BlockHash: row.ChangedInBlockHash,
				Amount:    amount,
			},
		}, true, nil

	default:
		return model.ActivityElement{}, false, inconsistent("unknown update reason %q", row.UpdateReason)
	}
}

func stakedBalanceDelta(current, previous string) (string, error) {
	cur, ok := new(big.Int).SetString(current, 10)
	if !ok {
		return "", inconsistent("invalid staked balance %q", current)
	}
	prev, ok := new(big.Int).SetString(previous, 10)
	if !ok {
		return "", inconsistent("invalid staked balance %q", previous)
	}
	return new(big.Int).Sub(cur, prev).String(), nil
}

// nextCursor is taken from the raw rows, not the elements, so that skipped
// rows are not fetched again.
func nextCursor(rows []model.ChangeLogRow, pageSize int) *uint64 {
	if len(rows) < pageSize {
		return nil
	}
	ts := rows[pageSize-1].ChangedInBlockTimestamp
	return &ts
}
