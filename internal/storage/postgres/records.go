package postgres

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nearActivity/internal/model"
)

// changeLogRecord is an account_changes row as scanned, numerics as text.
type changeLogRecord struct {
	AccountID       string
	Timestamp       string
	BlockHash       string
	UpdateReason    string
	ReceiptID       string
	TransactionHash string
	StakedBalance   string
}

func (r changeLogRecord) toModel() (model.ChangeLogRow, error) {
	ts, err := parseUint(r.Timestamp)
	if err != nil {
		return model.ChangeLogRow{}, corrupt("changed_in_block_timestamp", err)
	}
	reason, err := model.ParseUpdateReason(r.UpdateReason)
	if err != nil {
		return model.ChangeLogRow{}, corrupt("update_reason", err)
	}
	return model.ChangeLogRow{
		AffectedAccountID:            r.AccountID,
		ChangedInBlockTimestamp:      ts,
		ChangedInBlockHash:           r.BlockHash,
		UpdateReason:                 reason,
		CausedByReceiptID:            r.ReceiptID,
		CausedByTransactionHash:      r.TransactionHash,
		AffectedAccountStakedBalance: r.StakedBalance,
	}, nil
}

// actionRecord is one row of a receipt or transaction joined with one of its
// actions. Kind and Args are nil when the parent has no actions.
type actionRecord struct {
	ID              string
	SignerID        string
	ReceiverID      string
	Timestamp       string
	TransactionHash string
	Kind            *string
	Args            *string
}

type parent struct {
	id              string
	signerID        string
	receiverID      string
	timestamp       uint64
	transactionHash string
	actions         []model.Action
}

// groupActions folds joined rows into parents, keeping the action order of the query.
func groupActions(records []actionRecord) (map[string]*parent, error) {
	out := make(map[string]*parent)
	for _, rec := range records {
		p, ok := out[rec.ID]
		if !ok {
			ts, err := parseUint(rec.Timestamp)
			if err != nil {
				return nil, corrupt(rec.ID+" block timestamp", err)
			}
			p = &parent{
				id:              rec.ID,
				signerID:        rec.SignerID,
				receiverID:      rec.ReceiverID,
				timestamp:       ts,
				transactionHash: rec.TransactionHash,
				actions:         make([]model.Action, 0, 1),
			}
			out[rec.ID] = p
		}
		if rec.Kind == nil {
			continue
		}
		var args string
		if rec.Args != nil {
			args = *rec.Args
		}
		action, err := parseAction(*rec.Kind, args)
		if err != nil {
			return nil, corrupt(rec.ID, err)
		}
		p.actions = append(p.actions, action)
	}
	return out, nil
}

func collectReceipts(records []actionRecord) (map[string]model.Receipt, error) {
	grouped, err := groupActions(records)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Receipt, len(grouped))
	for id, p := range grouped {
		out[id] = model.Receipt{
			ReceiptID:                     p.id,
			SignerID:                      p.signerID,
			ReceiverID:                    p.receiverID,
			BlockTimestamp:                p.timestamp,
			OriginatedFromTransactionHash: p.transactionHash,
			Actions:                       p.actions,
		}
	}
	return out, nil
}

func collectTransactions(records []actionRecord) (map[string]model.Transaction, error) {
	grouped, err := groupActions(records)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Transaction, len(grouped))
	for hash, p := range grouped {
		out[hash] = model.Transaction{
			Hash:           p.id,
			SignerID:       p.signerID,
			ReceiverID:     p.receiverID,
			BlockTimestamp: p.timestamp,
			Actions:        p.actions,
		}
	}
	return out, nil
}

// actionArgs holds the args jsonb fields the feed needs.
type actionArgs struct {
	MethodName string          `json:"method_name"`
	Deposit    json.RawMessage `json:"deposit"`
}

func parseAction(kind string, args string) (model.Action, error) {
	actionKind, err := model.ParseActionKind(kind)
	if err != nil {
		return model.Action{}, err
	}
	action := model.Action{Kind: actionKind}
	if actionKind != model.ActionFunctionCall && actionKind != model.ActionTransfer {
		return action, nil
	}
	if args == "" {
		return model.Action{}, fmt.Errorf("%s action has no args", actionKind)
	}

	var parsed actionArgs
	if err := json.Unmarshal([]byte(args), &parsed); err != nil {
		return model.Action{}, fmt.Errorf("decode %s args: %w", actionKind, err)
	}

	switch actionKind {
	case model.ActionFunctionCall:
		action.MethodName = parsed.MethodName
	case model.ActionTransfer:
		deposit, err := parseDeposit(parsed.Deposit)
		if err != nil {
			return model.Action{}, err
		}
		action.Deposit = deposit
	}
	return action, nil
}

// parseDeposit accepts the deposit as a JSON string or a bare number.
func parseDeposit(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("transfer args have no deposit")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", fmt.Errorf("invalid deposit %s", raw)
	}
	return number.String(), nil
}

// corrupt marks a decode failure as inconsistent index data so it is not
// mistaken for an unavailable database.
func corrupt(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrInconsistentIndex, what, err)
}

func parseUint(text string) (uint64, error) {
	return strconv.ParseUint(text, 10, 64)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
